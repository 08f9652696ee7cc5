package handlers

import (
	"fmt"

	"courtside/internal/analysis"
	"courtside/internal/config"
	"courtside/internal/llm"
	"courtside/internal/logger"
	"courtside/internal/metrics"
	"courtside/internal/schedule"
)

// services bundles the model-backed components a command needs.
type services struct {
	games    *schedule.Fetcher
	analyzer *analysis.Analyzer
	metrics  *metrics.Metrics
}

// newServices builds the traced Gemini client and the schedule and analysis
// services on top of it.
func newServices(cfg *config.Config) (*services, error) {
	m := metrics.Default()

	client, err := llm.NewClient(cfg.AI.Gemini, llm.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	logger.Debug("Gemini client ready", "model", client.GetModelName(), "thinking_budget", cfg.AI.Gemini.ThinkingBudget)
	traced := llm.NewTracedClient(client, m)

	return &services{
		games:    schedule.NewFetcher(traced, schedule.WithMetrics(m)),
		analyzer: analysis.NewAnalyzer(traced, analysis.WithThinkingBudget(cfg.AI.Gemini.ThinkingBudget), analysis.WithMetrics(m)),
		metrics:  m,
	}, nil
}
