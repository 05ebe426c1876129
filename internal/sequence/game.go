// internal/sequence/game.go
//
// Engine for one color-sequence memory game.
// Responsibilities:
//   - Grow a random sequence one token per round.
//   - Replay it with fixed pacing through a schedule.Runner.
//   - Check presses against the sequence and drive phase transitions.
//
// Notes:
//   - All state changes happen under g.mu; timer steps take the same lock,
//     so every transition runs to completion.
//   - Observers are called with g.mu held and must not call back into Game.
//   - Presses are ignored while a replay is running.

package sequence

import (
	"sync"
	"time"

	"github.com/robalobadob/manasvi/internal/random"
	"github.com/robalobadob/manasvi/internal/schedule"
)

// Option configures a Game.
type Option func(*Game)

// WithClock sets the clock that paces replays.
func WithClock(c schedule.Clock) Option { return func(g *Game) { g.clock = c } }

// WithSource sets the random source for new tokens.
func WithSource(s random.Source) Option { return func(g *Game) { g.src = s } }

// WithPalette overrides the token set.
func WithPalette(p []Color) Option { return func(g *Game) { g.palette = append([]Color(nil), p...) } }

// Game is one player's sequence game.
type Game struct {
	clock   schedule.Clock
	src     random.Source
	palette []Color
	runner  *schedule.Runner

	mu        sync.Mutex
	phase     Phase
	sequence  []Color
	attempt   []Color
	highlight int
	message   string
	epoch     uint64

	nextObserver int
	observers    map[int]func(Event)
}

// New constructs an idle game.
func New(opts ...Option) *Game {
	g := &Game{
		palette:   Palette,
		phase:     PhaseIdle,
		highlight: -1,
		message:   MsgReady,
		observers: make(map[int]func(Event)),
	}
	for _, o := range opts {
		o(g)
	}
	if g.clock == nil {
		g.clock = schedule.Real()
	}
	if g.src == nil {
		g.src = random.New()
	}
	g.runner = schedule.NewRunner(g.clock)
	return g
}

// Observe registers fn for events and returns a function that removes it.
func (g *Game) Observe(fn func(Event)) (cancel func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextObserver
	g.nextObserver++
	g.observers[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.observers, id)
	}
}

// Start begins a new game: one random token, then a replay.
// It reports false (and does nothing) while a replay is running.
func (g *Game) Start() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhasePlaying {
		return false
	}
	g.sequence = nil
	g.attempt = nil
	g.appendTokenLocked()
	g.replayLocked()
	return true
}

// Press submits one token of the player's replay.
func (g *Game) Press(c Color) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseAwaitingInput || len(g.attempt) >= len(g.sequence) {
		return OutcomeIgnored
	}

	i := len(g.attempt)
	if c != g.sequence[i] {
		g.attempt = nil
		g.setPhaseLocked(PhaseFailed)
		g.setMessageLocked(MsgWrong)
		g.afterLocked(RetryDelay, g.replayLocked)
		return OutcomeMismatch
	}

	g.attempt = append(g.attempt, c)
	if len(g.attempt) < len(g.sequence) {
		return OutcomeAccepted
	}
	g.setMessageLocked(MsgGood)
	g.afterLocked(NextRoundDelay, func() {
		g.appendTokenLocked()
		g.replayLocked()
	})
	return OutcomeRoundComplete
}

// Stop cancels pending timers and returns the game to idle.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.epoch++
	g.runner.Cancel()
	g.sequence = nil
	g.attempt = nil
	g.highlight = -1
	g.setPhaseLocked(PhaseIdle)
	g.setMessageLocked(MsgReady)
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		Phase:     g.phase,
		Sequence:  append([]Color{}, g.sequence...),
		Attempt:   append([]Color{}, g.attempt...),
		Highlight: g.highlight,
		Message:   g.message,
		Palette:   append([]Color{}, g.palette...),
	}
}

// Len returns the current sequence length.
func (g *Game) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sequence)
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) appendTokenLocked() {
	c, _ := random.Pick(g.src, g.palette)
	g.sequence = append(g.sequence, c)
}

// replayLocked enters Playing and schedules the reveal: each token lit for
// HighlightDuration, then HighlightGap dark, then input opens.
func (g *Game) replayLocked() {
	g.setPhaseLocked(PhasePlaying)
	g.setMessageLocked(MsgWatch)

	g.epoch++
	epoch := g.epoch
	plan := make(schedule.Plan, 0, 2*len(g.sequence)+1)
	var delay time.Duration
	for i := range g.sequence {
		i := i
		plan = append(plan,
			schedule.Step{Delay: delay, Do: g.guard(epoch, func() { g.setHighlightLocked(i) })},
			schedule.Step{Delay: HighlightDuration, Do: g.guard(epoch, func() { g.setHighlightLocked(-1) })},
		)
		delay = HighlightGap
	}
	plan = append(plan, schedule.Step{Delay: HighlightGap, Do: g.guard(epoch, func() {
		g.attempt = nil
		g.setMessageLocked(MsgYourTurn)
		g.setPhaseLocked(PhaseAwaitingInput)
	})})
	g.runner.Run(plan)
}

// afterLocked runs fn under the lock after d, unless the game moved on.
func (g *Game) afterLocked(d time.Duration, fn func()) {
	g.epoch++
	g.runner.Run(schedule.Plan{{Delay: d, Do: g.guard(g.epoch, fn)}})
}

// guard wraps fn so a step from a superseded plan is a no-op.
func (g *Game) guard(epoch uint64, fn func()) func() {
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if epoch != g.epoch {
			return
		}
		fn()
	}
}

func (g *Game) setHighlightLocked(i int) {
	g.highlight = i
	if i < 0 {
		g.emitLocked(Event{Kind: EventClear, Index: -1})
		return
	}
	g.emitLocked(Event{Kind: EventHighlight, Index: i, Color: g.sequence[i]})
}

func (g *Game) setPhaseLocked(p Phase) {
	if g.phase == p {
		return
	}
	g.phase = p
	g.emitLocked(Event{Kind: EventPhase, Phase: p})
}

func (g *Game) setMessageLocked(m string) {
	if g.message == m {
		return
	}
	g.message = m
	g.emitLocked(Event{Kind: EventMessage, Message: m})
}

func (g *Game) emitLocked(e Event) {
	e.Length = len(g.sequence)
	for _, fn := range g.observers {
		fn(e)
	}
}
