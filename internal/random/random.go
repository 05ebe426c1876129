// internal/random/random.go
//
// Injectable randomness for the games and resource pickers.
//   - Source: the minimal interface the games draw from (IntN).
//   - New / NewSeeded: production and deterministic sources.
//   - Shuffle / Pick: unbiased helpers built on a Source.

package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed ints in [0, n). n must be > 0.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// New returns a Source seeded from crypto/rand.
func New() Source {
	var b [16]byte
	_, _ = crand.Read(b[:])
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// NewSeeded returns a deterministic Source for tests and replays.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle permutes items in place with Fisher–Yates: for i from the last
// index down to 1, swap items[i] with items[j], j uniform in [0, i].
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Shuffled returns a shuffled copy, leaving items untouched.
func Shuffled[T any](src Source, items []T) []T {
	out := append([]T(nil), items...)
	Shuffle(src, out)
	return out
}

// Pick returns one element chosen uniformly. ok is false for an empty slice.
func Pick[T any](src Source, items []T) (v T, ok bool) {
	if len(items) == 0 {
		return v, false
	}
	return items[src.IntN(len(items))], true
}

// Fixed replays a scripted list of draws, cycling when exhausted. Each
// draw is reduced modulo n so scripts stay valid for any range.
type Fixed struct {
	Draws []int
	next  int
}

// IntN implements Source.
func (f *Fixed) IntN(n int) int {
	if len(f.Draws) == 0 {
		return 0
	}
	v := f.Draws[f.next%len(f.Draws)]
	f.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Locked wraps src for use from several goroutines.
func Locked(src Source) Source {
	return &locked{src: src}
}

type locked struct {
	mu  sync.Mutex
	src Source
}

func (l *locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}
