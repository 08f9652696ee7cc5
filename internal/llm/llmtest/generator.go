// Package llmtest provides a scriptable llm.Generator for tests.
package llmtest

import (
	"context"
	"sync"

	"courtside/internal/llm"
)

// Call records one Generate invocation.
type Call struct {
	Prompt string
	Opts   llm.Options
}

// MockGenerator provides a mock implementation of llm.Generator. GenerateFunc
// takes precedence; otherwise replies are chosen by Options.Purpose from
// Replies, falling back to an empty response.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, opts llm.Options) (llm.Response, error)
	Replies      map[string]llm.Response
	Errors       map[string]error

	mu    sync.Mutex
	calls []Call
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts llm.Options) (llm.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Prompt: prompt, Opts: opts})
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	if err := m.Errors[opts.Purpose]; err != nil {
		return llm.Response{}, err
	}
	return m.Replies[opts.Purpose], nil
}

// Calls returns the recorded invocations in order.
func (m *MockGenerator) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the invocations made for one purpose.
func (m *MockGenerator) CallsFor(purpose string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Opts.Purpose == purpose {
			out = append(out, c)
		}
	}
	return out
}
