package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/internal/config"
	"courtside/internal/core"
	"courtside/internal/metrics"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultModel is the default Gemini model for schedule lookups and analysis.
const DefaultModel = "gemini-2.5-flash"

var (
	// ErrMissingAPIKey is returned when no Gemini API key is configured
	ErrMissingAPIKey = errors.New("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file.\nGet your API key from: https://aistudio.google.com/app/apikey")

	// ErrEmptyPrompt is returned when Generate is called without a prompt
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)

// Options configures a single remote call.
type Options struct {
	SystemInstruction string // Optional system prompt
	Grounded          bool   // Enable live Google Search grounding
	ThinkingBudget    int32  // Thinking tokens; 0 leaves the model default
	Model             string // Model to use (optional, defaults to client's model)
	Purpose           string // Label for metrics and logs, e.g. "schedule" or "analysis"
}

// Response is the raw output of one remote call. Text may be empty; callers
// decide what an empty reply means for them.
type Response struct {
	Text      string
	Citations []core.Citation
}

// Generator is the remote model boundary used by schedule and analysis.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (Response, error)
}

// Client represents a client for interacting with Gemini.
type Client struct {
	apiKey    string
	modelName string
	gClient   *genai.Client
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithLimiter replaces the limiter built from configuration.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithMetrics records rate limiter waits on m.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new Gemini client from configuration.
func NewClient(cfg config.GeminiConfig, opts ...ClientOption) (*Client, error) {
	if !config.IsValidAPIKey(cfg.APIKey) {
		return nil, ErrMissingAPIKey
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		apiKey:    cfg.APIKey,
		modelName: modelName,
		gClient:   gClient,
		limiter:   NewLimiter(cfg.RequestsPerMinute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewLimiter paces calls to requestsPerMinute. Zero or less disables pacing.
func NewLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 2)
}

// Generate issues one remote call. There is no retry and no timeout beyond
// what ctx carries; a failure is returned to the caller as is.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (Response, error) {
	if prompt == "" {
		return Response{}, ErrEmptyPrompt
	}

	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("rate limiter: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordRateLimitWait(opts.Purpose, time.Since(waitStart).Seconds())
	}

	modelName := c.modelName
	if opts.Model != "" {
		modelName = opts.Model
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, modelName, contents, buildConfig(opts))
	if err != nil {
		return Response{}, fmt.Errorf("failed to generate content: %w", err)
	}

	return responseFrom(resp), nil
}

// buildConfig maps Options onto the SDK request config.
func buildConfig(opts Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if opts.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemInstruction}},
		}
	}

	if opts.Grounded {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	if opts.ThinkingBudget > 0 {
		budget := opts.ThinkingBudget
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}

	return cfg
}

// responseFrom extracts the text and grounding chunks of the first candidate.
// Chunks without a web reference are kept as empty citations; filtering them
// is the sanitizer's job.
func responseFrom(resp *genai.GenerateContentResponse) Response {
	if resp == nil {
		return Response{}
	}

	out := Response{Text: resp.Text()}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].GroundingMetadata == nil {
		return out
	}

	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil {
			continue
		}
		var citation core.Citation
		if chunk.Web != nil {
			citation.Web = &core.WebReference{Title: chunk.Web.Title, URI: chunk.Web.URI}
		}
		out.Citations = append(out.Citations, citation)
	}
	return out
}

// GetModelName returns the default model for calls that do not set Options.Model.
func (c *Client) GetModelName() string {
	return c.modelName
}
