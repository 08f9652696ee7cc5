package llm

import (
	"context"
	"log/slog"
	"time"

	"courtside/internal/logger"
	"courtside/internal/metrics"
)

// TracedClient wraps a Generator with metrics and structured logging.
type TracedClient struct {
	client  Generator
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewTracedClient creates a traced generator. A nil metrics uses metrics.Default().
func NewTracedClient(client Generator, m *metrics.Metrics) *TracedClient {
	if m == nil {
		m = metrics.Default()
	}
	return &TracedClient{
		client:  client,
		metrics: m,
		log:     logger.Get(),
	}
}

// Generate calls the wrapped generator and records latency, status and citation count.
func (tc *TracedClient) Generate(ctx context.Context, prompt string, opts Options) (Response, error) {
	purpose := opts.Purpose
	if purpose == "" {
		purpose = "generic"
	}

	startTime := time.Now()
	resp, err := tc.client.Generate(ctx, prompt, opts)
	latency := time.Since(startTime)

	if err != nil {
		tc.metrics.RecordModelCall(purpose, "error", latency.Seconds(), 0)
		tc.log.Error("Remote model call failed",
			"purpose", purpose,
			"latency_ms", latency.Milliseconds(),
			"error", err.Error(),
		)
		return Response{}, err
	}

	tc.metrics.RecordModelCall(purpose, "ok", latency.Seconds(), len(resp.Citations))
	tc.log.Debug("Remote model call completed",
		"purpose", purpose,
		"latency_ms", latency.Milliseconds(),
		"response_chars", len(resp.Text),
		"citations", len(resp.Citations),
		"grounded", opts.Grounded,
	)
	return resp, nil
}
