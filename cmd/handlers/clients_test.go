package handlers

import (
	"errors"
	"testing"

	"courtside/internal/config"
	"courtside/internal/llm"
)

func TestNewServicesRejectsPlaceholderKey(t *testing.T) {
	cfg := &config.Config{AI: config.AI{Gemini: config.GeminiConfig{APIKey: "your-api-key"}}}

	if _, err := newServices(cfg); !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}
