// Package schedule looks up upcoming NBA games through the grounded model.
package schedule

import (
	"context"
	"errors"
	"time"

	"courtside/internal/core"
	"courtside/internal/extract"
	"courtside/internal/llm"
	"courtside/internal/logger"
	"courtside/internal/metrics"
	"courtside/internal/sanitize"

	"github.com/google/uuid"
)

const purpose = "schedule"

// Fetcher retrieves the schedule for today and tomorrow.
type Fetcher struct {
	gen      llm.Generator
	metrics  *metrics.Metrics
	location *time.Location
	now      func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock overrides the time source used to build the prompt.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// WithMetrics records extraction outcomes and game counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// NewFetcher creates a schedule fetcher. Dates are computed in America/New_York;
// if the zone database is unavailable a fixed UTC-5 zone is used.
func NewFetcher(gen llm.Generator, opts ...Option) *Fetcher {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("ET", -5*60*60)
	}

	f := &Fetcher{
		gen:      gen,
		metrics:  metrics.Default(),
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Upcoming returns the games scheduled today and tomorrow. It never fails:
// remote errors and unreadable replies yield an empty list and a warning.
// Games without an id get a generated one.
func (f *Fetcher) Upcoming(ctx context.Context) []core.Game {
	prompt := BuildPrompt(f.now().In(f.location))

	resp, err := f.gen.Generate(ctx, prompt, llm.Options{Grounded: true, Purpose: purpose})
	if err != nil {
		logger.Warn("Schedule lookup failed, returning no games", "error", err.Error())
		f.metrics.RecordSchedule(0)
		return []core.Game{}
	}

	text := resp.Text
	if text == "" {
		text = "[]"
	}

	value, stage, err := extract.StructureWithStage(text)
	f.metrics.RecordExtraction(purpose, string(stage))
	if err != nil {
		args := []any{"error", err.Error()}
		var syntaxErr *extract.SyntaxError
		if errors.As(err, &syntaxErr) {
			args = append(args, "cleaned", syntaxErr.Cleaned)
		}
		logger.Warn("Schedule reply was not valid JSON, returning no games", args...)
		f.metrics.RecordSchedule(0)
		return []core.Game{}
	}

	games := sanitize.Games(value)
	for i := range games {
		if games[i].ID == "" {
			games[i].ID = uuid.NewString()
		}
	}

	f.metrics.RecordSchedule(len(games))
	logger.Debug("Schedule lookup completed", "games", len(games), "stage", string(stage))
	return games
}
