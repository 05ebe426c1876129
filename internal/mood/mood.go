// internal/mood/mood.go
//
// Mood log: one mood per calendar day, persisted through a kv.Store.
//
// Persistence contract:
//   - The whole mapping (date key -> mood label) is written as JSON under
//     StorageKey on every Select.
//   - On Open, a missing or unparsable value starts an empty log; Open
//     never fails the caller.
//   - Writes are last-write-wins; there is no conflict detection.

package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/manasvi/internal/daily"
	"github.com/robalobadob/manasvi/internal/kv"
)

// StorageKey is the kv key holding the serialized log.
const StorageKey = "mood_log"

// ErrUnknownMood is returned for labels outside Moods.
var ErrUnknownMood = errors.New("unknown mood")

// Mood is one selectable option.
type Mood struct {
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// None is returned for days without an entry.
var None = Mood{Label: "none"}

// IsNone reports whether m is the absent mood.
func (m Mood) IsNone() bool { return m == None }

// Moods lists the options, saddest first.
var Moods = []Mood{
	{Label: "Very Sad", Emoji: "😞"},
	{Label: "Sad", Emoji: "😔"},
	{Label: "Neutral", Emoji: "😐"},
	{Label: "Happy", Emoji: "🙂"},
	{Label: "Very Happy", Emoji: "😄"},
}

// Lookup finds a mood by label, case-insensitively.
func Lookup(label string) (Mood, bool) {
	for _, m := range Moods {
		if strings.EqualFold(m.Label, strings.TrimSpace(label)) {
			return m, true
		}
	}
	return None, false
}

// Entry is one day's mood.
type Entry struct {
	Date string `json:"date"`
	Mood Mood   `json:"mood"`
}

// Log is the date-keyed mood store.
type Log struct {
	store kv.Store
	// writeMu orders whole writes so the store always ends up with the
	// latest mapping.
	writeMu sync.Mutex

	mu      sync.RWMutex
	entries map[string]string
}

// Open loads the log from store.
func Open(ctx context.Context, store kv.Store) *Log {
	l := &Log{store: store, entries: make(map[string]string)}

	raw, ok, err := store.Get(ctx, StorageKey)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("mood log unreadable; starting empty")
	case !ok:
	default:
		entries, err := decode(raw)
		if err != nil {
			log.Warn().Err(err).Msg("mood log unparsable; starting empty")
			break
		}
		l.entries = entries
	}
	return l
}

// Select records mood for date's calendar day, overwriting any earlier
// entry, and persists the full mapping. The in-memory log is updated even
// when the write fails; the write error is returned.
func (l *Log) Select(ctx context.Context, date time.Time, label string) (Mood, error) {
	m, ok := Lookup(label)
	if !ok {
		return None, fmt.Errorf("%w: %q", ErrUnknownMood, label)
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	l.mu.Lock()
	l.entries[daily.DateKey(date)] = m.Label
	raw, err := json.Marshal(l.entries)
	l.mu.Unlock()
	if err != nil {
		return m, fmt.Errorf("encode mood log: %w", err)
	}

	if err := l.store.Set(ctx, StorageKey, string(raw)); err != nil {
		return m, fmt.Errorf("persist mood log: %w", err)
	}
	return m, nil
}

// MoodFor returns the mood recorded for date's calendar day, or None.
func (l *Log) MoodFor(date time.Time) Mood {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if label, ok := l.entries[daily.DateKey(date)]; ok {
		m, _ := Lookup(label)
		return m
	}
	return None
}

// Month returns the entries of one calendar month, ordered by date.
func (l *Log) Month(year int, month time.Month) []Entry {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))

	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []Entry{}
	for key, label := range l.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		m, _ := Lookup(label)
		out = append(out, Entry{Date: key, Mood: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Len returns the number of recorded days.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// decode accepts the flat label mapping, and also the older form where
// each value was a {emoji, label} object. Entries with unknown labels or
// malformed keys are dropped.
func decode(raw string) (map[string]string, error) {
	flat := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &flat); err != nil {
		objs := map[string]Mood{}
		if err2 := json.Unmarshal([]byte(raw), &objs); err2 != nil {
			return nil, err
		}
		for k, m := range objs {
			flat[k] = m.Label
		}
	}

	out := make(map[string]string, len(flat))
	for k, label := range flat {
		m, ok := Lookup(label)
		if !ok {
			log.Warn().Str("date", k).Str("mood", label).Msg("dropping unknown mood")
			continue
		}
		if _, err := daily.ParseKey(k); err != nil {
			log.Warn().Str("date", k).Msg("dropping malformed date key")
			continue
		}
		out[k] = m.Label
	}
	return out, nil
}
