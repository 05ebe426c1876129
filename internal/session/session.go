// internal/session/session.go
//
// Per-tab state. Every browser tab owns one Session holding its own
// sequence game, word puzzle and chat transcript. Nothing here is shared
// between sessions, and nothing survives a restart.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/manasvi/internal/assistant"
	"github.com/robalobadob/manasvi/internal/puzzle"
	"github.com/robalobadob/manasvi/internal/random"
	"github.com/robalobadob/manasvi/internal/schedule"
	"github.com/robalobadob/manasvi/internal/sequence"
)

// ErrNotFound is returned by Store.Get for an unknown or pruned session.
var ErrNotFound = errors.New("session not found")

// Session is the state owned by one tab.
type Session struct {
	ID           string
	Created      time.Time
	Sequence     *sequence.Game
	Puzzle       *puzzle.Game
	Conversation *assistant.Conversation

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch records activity.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen is the time of the last Touch.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close stops pending game timers.
func (s *Session) Close() {
	if s.Sequence != nil {
		s.Sequence.Stop()
	}
}

// Factory builds fresh sessions.
type Factory struct {
	Phrases []string
	Gateway *assistant.Gateway
	Clock   schedule.Clock
	// NewSource returns the random source for one session. Defaults to random.New.
	NewSource func() random.Source
	Now       func() time.Time
}

// New constructs a session with a new ID and fresh state objects.
func (f Factory) New() (*Session, error) {
	newSource := f.NewSource
	if newSource == nil {
		newSource = random.New
	}
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	clock := f.Clock
	if clock == nil {
		clock = schedule.Real()
	}

	pz, err := puzzle.New(f.Phrases, newSource())
	if err != nil {
		return nil, fmt.Errorf("new puzzle: %w", err)
	}
	t := now()
	return &Session{
		ID:           uuid.NewString(),
		Created:      t,
		Sequence:     sequence.New(sequence.WithClock(clock), sequence.WithSource(newSource())),
		Puzzle:       pz,
		Conversation: assistant.NewConversation(f.Gateway),
		lastSeen:     t,
	}, nil
}

// Store keeps sessions by ID.
type Store interface {
	Save(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for a missing ID.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Memory is a map-backed Store. Safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*Session)}
}

// Save adds or replaces s.
func (m *Memory) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *Memory) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Delete removes and closes a session. Missing IDs are not an error.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
	return nil
}

// Len is the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune closes and removes sessions idle since before cutoff.
func (m *Memory) Prune(cutoff time.Time) int {
	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// CloseAll closes and removes every session.
func (m *Memory) CloseAll() {
	m.Prune(time.Now().Add(100 * 365 * 24 * time.Hour))
}
