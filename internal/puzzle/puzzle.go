// internal/puzzle/puzzle.go
//
// Engine for the affirmation jumble: a phrase is split into words,
// shuffled, and the player rebuilds it word by word.
//
// Invariant: remaining ∪ selected (as multisets) always equals the words
// of the current phrase.

package puzzle

import (
	"errors"
	"strings"
	"sync"

	"github.com/robalobadob/manasvi/internal/random"
)

// Status copy shown above the board.
const (
	MsgPrompt  = "Unscramble the affirmation"
	MsgCorrect = "Correct! Well done 🎉"
	MsgRetry   = "Try again! Keep going."
)

// ErrNoPhrases is returned by New for an empty phrase list.
var ErrNoPhrases = errors.New("puzzle: no phrases")

// Snapshot is a copy of the board for rendering. The phrase itself is
// not included until it is solved.
type Snapshot struct {
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Remaining []string `json:"remaining"`
	Selected  []string `json:"selected"`
	Solved    bool     `json:"solved"`
	Message   string   `json:"message"`
	Phrase    string   `json:"phrase,omitempty"`
}

// Game holds one player's puzzle board.
type Game struct {
	src     random.Source
	phrases []string

	mu        sync.Mutex
	index     int
	remaining []string
	selected  []string
	solved    bool
	message   string
}

// New starts a board on the first phrase.
func New(phrases []string, src random.Source) (*Game, error) {
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}
	if src == nil {
		src = random.New()
	}
	g := &Game{src: src, phrases: append([]string(nil), phrases...)}
	g.enterLocked(0)
	return g, nil
}

// Pick moves one occurrence of word from remaining to the end of selected.
// It reports whether anything moved.
func (g *Game) Pick(word string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.solved {
		return false
	}
	var ok bool
	g.remaining, ok = removeFirst(g.remaining, word)
	if ok {
		g.selected = append(g.selected, word)
	}
	return ok
}

// Unpick moves one occurrence of word from selected back to the end of remaining.
func (g *Game) Unpick(word string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.solved {
		return false
	}
	var ok bool
	g.selected, ok = removeFirst(g.selected, word)
	if ok {
		g.remaining = append(g.remaining, word)
	}
	return ok
}

// UnpickLast returns the most recently placed word to remaining.
func (g *Game) UnpickLast() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.solved || len(g.selected) == 0 {
		return false
	}
	last := g.selected[len(g.selected)-1]
	g.selected = g.selected[:len(g.selected)-1]
	g.remaining = append(g.remaining, last)
	return true
}

// Check compares the selected words, single-space joined, with the phrase.
// A mismatch only changes the message; the selection stays as placed.
func (g *Game) Check() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.solved {
		return true
	}
	if len(g.selected) == 0 {
		g.message = MsgRetry
		return false
	}
	if strings.Join(g.selected, " ") == g.phrases[g.index] {
		g.solved = true
		g.message = MsgCorrect
		return true
	}
	g.message = MsgRetry
	return false
}

// Next advances to the following phrase, wrapping after the last one.
func (g *Game) Next() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enterLocked((g.index + 1) % len(g.phrases))
}

// Message is the status line under the board.
func (g *Game) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// Snapshot returns a copy of the board.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Snapshot{
		Index:     g.index,
		Total:     len(g.phrases),
		Remaining: append([]string{}, g.remaining...),
		Selected:  append([]string{}, g.selected...),
		Solved:    g.solved,
		Message:   g.message,
	}
	if g.solved {
		s.Phrase = g.phrases[g.index]
	}
	return s
}

func (g *Game) enterLocked(i int) {
	g.index = i
	g.remaining = random.Shuffled(g.src, strings.Fields(g.phrases[i]))
	g.selected = nil
	g.solved = false
	g.message = MsgPrompt
}

func removeFirst(words []string, w string) ([]string, bool) {
	for i, x := range words {
		if x == w {
			return append(words[:i:i], words[i+1:]...), true
		}
	}
	return words, false
}
