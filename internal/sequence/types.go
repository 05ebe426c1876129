// internal/sequence/types.go
//
// Type definitions for the color-sequence memory game.
// Defines:
//   - Color: one palette token.
//   - Phase: the game's coarse state.
//   - Outcome: what a single press did.
//   - Event: notifications for whoever renders the board.

package sequence

import (
	"errors"
	"time"
)

// Color is a palette token, rendered as a CSS hex color.
type Color string

// Palette is the default set of four tokens.
var Palette = []Color{"#ab47bc", "#6a1b9a", "#e1bee7", "#ce93d8"}

// ErrUnknownColor is returned by ParseColor for tokens outside the palette.
var ErrUnknownColor = errors.New("unknown color")

// ParseColor validates s against palette (Palette when nil).
func ParseColor(s string, palette []Color) (Color, error) {
	if palette == nil {
		palette = Palette
	}
	for _, c := range palette {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrUnknownColor
}

// Phase is the game's coarse state.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhasePlaying       Phase = "playing"
	PhaseAwaitingInput Phase = "awaiting_input"
	PhaseFailed        Phase = "failed"
)

// Outcome reports what Press did.
type Outcome string

const (
	OutcomeIgnored       Outcome = "ignored"
	OutcomeAccepted      Outcome = "accepted"
	OutcomeRoundComplete Outcome = "round_complete"
	OutcomeMismatch      Outcome = "mismatch"
)

// Pacing of the reveal and of the automatic transitions.
const (
	HighlightDuration = 800 * time.Millisecond
	HighlightGap      = 400 * time.Millisecond
	NextRoundDelay    = 1000 * time.Millisecond
	RetryDelay        = 1500 * time.Millisecond
)

// Status copy shown under the board.
const (
	MsgReady    = "Press Start to begin"
	MsgWatch    = "Watch the pattern..."
	MsgYourTurn = "Your turn: Repeat the pattern"
	MsgGood     = "Good job! Adding next color..."
	MsgWrong    = "Oops! Wrong color. Try again."
)

// EventKind tags an Event.
type EventKind string

const (
	EventHighlight EventKind = "highlight" // Index/Color lit
	EventClear     EventKind = "clear"     // highlight removed
	EventPhase     EventKind = "phase"
	EventMessage   EventKind = "message"
)

// Event is emitted on every visible change.
type Event struct {
	Kind    EventKind `json:"kind"`
	Index   int       `json:"index"`
	Color   Color     `json:"color,omitempty"`
	Phase   Phase     `json:"phase,omitempty"`
	Message string    `json:"message,omitempty"`
	Length  int       `json:"length"`
}

// Snapshot is a copy of the game state for rendering.
type Snapshot struct {
	Phase     Phase   `json:"phase"`
	Sequence  []Color `json:"sequence"`
	Attempt   []Color `json:"attempt"`
	Highlight int     `json:"highlight"` // -1 when nothing is lit
	Message   string  `json:"message"`
	Palette   []Color `json:"palette"`
}
