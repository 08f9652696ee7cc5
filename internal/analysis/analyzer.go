// Package analysis runs one grounded prop analysis for a game and turns the
// reply into a typed result.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"courtside/internal/core"
	"courtside/internal/extract"
	"courtside/internal/llm"
	"courtside/internal/logger"
	"courtside/internal/metrics"
	"courtside/internal/sanitize"
)

const purpose = "analysis"

// DefaultThinkingBudget leaves room for the several searches the prompt asks for.
const DefaultThinkingBudget int32 = 8192

// Analyzer produces prop analyses through a Generator.
type Analyzer struct {
	gen            llm.Generator
	metrics        *metrics.Metrics
	thinkingBudget int32
	model          string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithThinkingBudget sets the thinking tokens per call. Zero keeps the model default.
func WithThinkingBudget(budget int32) Option {
	return func(a *Analyzer) {
		a.thinkingBudget = budget
	}
}

// WithModel overrides the client's model for analysis calls.
func WithModel(model string) Option {
	return func(a *Analyzer) {
		a.model = model
	}
}

// WithMetrics records outcomes on m instead of metrics.Default().
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(gen llm.Generator, opts ...Option) *Analyzer {
	a := &Analyzer{
		gen:            gen,
		metrics:        metrics.Default(),
		thinkingBudget: DefaultThinkingBudget,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze requests props for game. Remote failures and unreadable replies are
// returned as errors; once the reply parses, the result is always complete,
// with defaults substituted for anything missing. Props are not filtered here;
// filter only shapes the prompt.
func (a *Analyzer) Analyze(ctx context.Context, game core.Game, filter core.PropFilter) (core.AnalysisResult, error) {
	if filter == "" {
		filter = core.FilterAll
	}

	resp, err := a.gen.Generate(ctx, BuildPrompt(game, filter), llm.Options{
		SystemInstruction: SystemPrompt,
		Grounded:          true,
		ThinkingBudget:    a.thinkingBudget,
		Model:             a.model,
		Purpose:           purpose,
	})
	if err != nil {
		a.metrics.RecordAnalysis(string(filter), "error", 0)
		return core.AnalysisResult{}, fmt.Errorf("analysis request for %s failed: %w", game.Matchup(), err)
	}

	text := resp.Text
	if text == "" {
		text = "{}"
	}

	value, stage, err := extract.StructureWithStage(text)
	a.metrics.RecordExtraction(purpose, string(stage))
	if err != nil {
		args := []any{"game", game.Matchup(), "error", err.Error()}
		var syntaxErr *extract.SyntaxError
		if errors.As(err, &syntaxErr) {
			args = append(args, "cleaned", syntaxErr.Cleaned)
		}
		logger.Warn("Analysis reply could not be parsed", args...)
		a.metrics.RecordAnalysis(string(filter), "invalid", 0)
		return core.AnalysisResult{}, fmt.Errorf("analysis reply for %s: %w", game.Matchup(), err)
	}

	result, report := sanitize.AnalysisWithReport(value, game, resp.Citations)
	a.recordReport(report)
	a.metrics.RecordAnalysis(string(filter), "ok", len(result.Props))

	logger.Info("Analysis completed",
		"game", game.Matchup(),
		"filter", string(filter),
		"stage", string(stage),
		"props", len(result.Props),
		"sources", len(result.Sources),
	)
	return result, nil
}

func (a *Analyzer) recordReport(r sanitize.Report) {
	if r.MarketContextDefaulted {
		a.metrics.RecordSanitizeDefault("market_context", 1)
	}
	a.metrics.RecordSanitizeDefault("market_field", r.MarketFieldsDefaulted)
	a.metrics.RecordSanitizeDefault("prop_skipped", r.PropsSkipped)
	a.metrics.RecordSanitizeDefault("confidence", r.ConfidenceDefaulted)
	a.metrics.RecordSanitizeDefault("last5_element", r.Last5Coerced)
	a.metrics.RecordSanitizeDefault("last5_missing", r.Last5Missing)
	a.metrics.RecordSanitizeDefault("protocol_analysis", r.ProtocolDefaulted)
}
