// Package daily derives calendar-day keys and per-day deterministic picks.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"
)

// Layout is the canonical date key format.
const Layout = "2006-01-02"

// DateKey returns the YYYY-MM-DD of t's calendar day in t's own location.
// Time of day is irrelevant.
func DateKey(t time.Time) string {
	return t.Format(Layout)
}

// ParseKey parses a date key into midnight UTC of that day.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("date key %q: %w", key, err)
	}
	return t, nil
}

// Index returns a deterministic index in [0, n) for the date's key using
// HMAC(salt, YYYY-MM-DD) % n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
