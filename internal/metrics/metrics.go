// Package metrics exposes Prometheus collectors for remote model calls and
// response recovery.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Remote model calls
	ModelCalls    *prometheus.CounterVec
	ModelLatency  *prometheus.HistogramVec
	ModelSources  *prometheus.HistogramVec
	RateLimitWait *prometheus.HistogramVec

	// Response recovery
	Extractions      *prometheus.CounterVec
	SanitizeDefaults *prometheus.CounterVec

	// Outcomes
	Analyses      *prometheus.CounterVec
	PropsReturned *prometheus.HistogramVec
	GamesReturned *prometheus.HistogramVec
}

// New creates a metrics collector with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ModelCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_model_calls_total",
				Help: "Remote model calls by purpose and status",
			},
			[]string{"purpose", "status"},
		),
		ModelLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_model_call_duration_seconds",
				Help:    "Remote model call latency",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
			},
			[]string{"purpose"},
		),
		ModelSources: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_model_grounding_chunks",
				Help:    "Grounding citations returned per call",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
			[]string{"purpose"},
		),
		RateLimitWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_rate_limit_wait_seconds",
				Help:    "Time spent waiting on the model rate limiter",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"purpose"},
		),
		Extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_extractions_total",
				Help: "JSON extraction outcomes by purpose and stage (strict, repaired, failed)",
			},
			[]string{"purpose", "stage"},
		),
		SanitizeDefaults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_sanitize_defaults_total",
				Help: "Defaults substituted while sanitizing analysis results",
			},
			[]string{"field"},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtside_analyses_total",
				Help: "Game analyses by filter and status",
			},
			[]string{"filter", "status"},
		),
		PropsReturned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_props_returned",
				Help:    "Props per successful analysis",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
			},
			[]string{"filter"},
		),
		GamesReturned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtside_schedule_games",
				Help:    "Games per schedule lookup",
				Buckets: []float64{0, 1, 2, 4, 6, 8, 10, 12, 15},
			},
			[]string{},
		),
	}

	m.registerAll()
	return m
}

func (m *Metrics) registerAll() {
	m.registry.MustRegister(
		m.ModelCalls,
		m.ModelLatency,
		m.ModelSources,
		m.RateLimitWait,
		m.Extractions,
		m.SanitizeDefaults,
		m.Analyses,
		m.PropsReturned,
		m.GamesReturned,
	)
}

// Registry returns the prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// --- Helper methods for recording metrics ---

// RecordModelCall records one remote call.
func (m *Metrics) RecordModelCall(purpose, status string, latencySec float64, chunks int) {
	m.ModelCalls.WithLabelValues(purpose, status).Inc()
	m.ModelLatency.WithLabelValues(purpose).Observe(latencySec)
	if status == "ok" {
		m.ModelSources.WithLabelValues(purpose).Observe(float64(chunks))
	}
}

// RecordRateLimitWait records time blocked on the limiter.
func (m *Metrics) RecordRateLimitWait(purpose string, waitSec float64) {
	m.RateLimitWait.WithLabelValues(purpose).Observe(waitSec)
}

// RecordExtraction records which normalizer stage handled a response.
func (m *Metrics) RecordExtraction(purpose, stage string) {
	m.Extractions.WithLabelValues(purpose, stage).Inc()
}

// RecordSanitizeDefault adds n substitutions for field. Zero is ignored.
func (m *Metrics) RecordSanitizeDefault(field string, n int) {
	if n <= 0 {
		return
	}
	m.SanitizeDefaults.WithLabelValues(field).Add(float64(n))
}

// RecordAnalysis records the outcome of one analysis.
func (m *Metrics) RecordAnalysis(filter, status string, props int) {
	m.Analyses.WithLabelValues(filter, status).Inc()
	if status == "ok" {
		m.PropsReturned.WithLabelValues(filter).Observe(float64(props))
	}
}

// RecordSchedule records the number of games a schedule lookup produced.
func (m *Metrics) RecordSchedule(games int) {
	m.GamesReturned.WithLabelValues().Observe(float64(games))
}

// Global instance for convenience
var defaultMetrics *Metrics
var once sync.Once

// Default returns the default global metrics instance.
func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}
