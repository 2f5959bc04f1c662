// Package engine owns the live portfolio aggregate for one session. The
// session is the single writer: commands are dispatched to completion one
// at a time, and every snapshot handed out is a deep clone, so readers
// never observe partial state and can never mutate the engine's copy.
package engine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/portfolio-engine/internal/command"
	"github.com/simaogato/portfolio-engine/internal/domain"
	"github.com/simaogato/portfolio-engine/internal/usecase/reducer"
)

// Session holds the aggregate for one pipeline session and serializes
// command application (mailbox discipline, no ambient globals)
type Session struct {
	id      uuid.UUID
	reducer *reducer.Reducer
	log     zerolog.Logger

	mu    sync.Mutex
	state domain.PortfolioState
	seq   uint64
}

// NewSession creates a session owning a clone of the initial snapshot
func NewSession(initial domain.PortfolioState, r *reducer.Reducer, log zerolog.Logger) *Session {
	id := uuid.New()
	return &Session{
		id:      id,
		reducer: r,
		log:     log.With().Str("component", "engine").Str("session", id.String()).Logger(),
		state:   initial.Clone(),
	}
}

// ID returns the session identity
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Dispatch applies one command and returns the resulting snapshot (a deep
// clone). Commands are applied in the order received; each one is reduced
// to completion before the next is accepted.
func (s *Session) Dispatch(cmd command.Command) domain.PortfolioState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = s.reducer.Reduce(prev, cmd)
	s.seq++

	// Every successful mutation stamps lastUpdated, so an unchanged stamp
	// means the command was a no-op
	changed := !s.state.LastUpdated.Equal(prev.LastUpdated)
	s.log.Debug().
		Uint64("seq", s.seq).
		Str("command", cmd.Kind()).
		Bool("changed", changed).
		Msg("command applied")

	return s.state.Clone()
}

// Snapshot returns a deep clone of the current aggregate
func (s *Session) Snapshot() domain.PortfolioState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
