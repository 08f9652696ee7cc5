package analysis

import (
	"context"
	"errors"
	"sync"

	"courtside/internal/core"
)

// ErrStale is returned for a request superseded by a newer one.
var ErrStale = errors.New("analysis superseded by a newer request")

// Ticket identifies one request started on a Session.
type Ticket struct {
	Generation uint64
	ctx        context.Context
}

// Context is cancelled when a newer request begins or the session is reset.
func (t Ticket) Context() context.Context {
	return t.ctx
}

// Session tracks the single in-flight analysis of one screen. Starting a new
// request cancels the previous one, and a result arriving for an older
// generation is reported as stale instead of replacing the current one.
type Session struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// Begin starts a new request derived from parent and supersedes any earlier one.
func (s *Session) Begin(parent context.Context) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.generation++
	return Ticket{Generation: s.generation, ctx: ctx}
}

// Current reports whether generation is the latest request.
func (s *Session) Current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return generation == s.generation
}

// Finish releases t and returns ErrStale if a newer request has begun.
func (s *Session) Finish(t Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation != s.generation {
		return ErrStale
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}

// Reset cancels the in-flight request, as when the user navigates back.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

// Run analyzes game under s: a newer Begin or a Reset cancels it, and a
// result that lost the race is dropped with ErrStale.
func (s *Session) Run(ctx context.Context, a *Analyzer, game core.Game, filter core.PropFilter) (core.AnalysisResult, error) {
	ticket := s.Begin(ctx)
	result, err := a.Analyze(ticket.Context(), game, filter)
	if finishErr := s.Finish(ticket); finishErr != nil {
		return core.AnalysisResult{}, finishErr
	}
	if err != nil {
		return core.AnalysisResult{}, err
	}
	return result, nil
}
