package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courtside.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	Reset()
	defer Reset()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("API_KEY", "")

	cfg, err := Load(writeConfig(t, "app:\n  debug: false\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Expected default model, got %s", cfg.AI.Gemini.Model)
	}
	if cfg.AI.Gemini.ThinkingBudget != 8192 {
		t.Errorf("Expected thinking budget 8192, got %d", cfg.AI.Gemini.ThinkingBudget)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 5*time.Minute {
		t.Errorf("Expected 5m write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	Reset()
	defer Reset()

	path := writeConfig(t, `
ai:
  gemini:
    model: gemini-2.5-pro
    thinking_budget: 1024
server:
  port: 9090
logging:
  level: WARN
  format: text
output:
  format: markdown
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("Expected model from file, got %s", cfg.AI.Gemini.Model)
	}
	if cfg.AI.Gemini.ThinkingBudget != 1024 {
		t.Errorf("Expected thinking budget 1024, got %d", cfg.AI.Gemini.ThinkingBudget)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected lower-cased level, got %s", cfg.Logging.Level)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Expected markdown output, got %s", cfg.Output.Format)
	}
	if cfg.App.ConfigFile != path {
		t.Errorf("Expected config file %s, got %s", path, cfg.App.ConfigFile)
	}
}

func TestLoadAPIKeyFromEnvironment(t *testing.T) {
	Reset()
	defer Reset()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "test-google-key")

	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AI.Gemini.APIKey != "test-google-key" {
		t.Errorf("Expected key from GOOGLE_API_KEY, got %q", cfg.AI.Gemini.APIKey)
	}
	if !IsValidAPIKey(cfg.AI.Gemini.APIKey) {
		t.Error("Expected key to be considered valid")
	}
}

func TestDebugForcesDebugLogging(t *testing.T) {
	Reset()
	defer Reset()

	cfg, err := Load(writeConfig(t, "app:\n  debug: true\nlogging:\n  level: error\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	Reset()
	defer Reset()

	_, err := Load(writeConfig(t, `
logging:
  level: verbose
  format: xml
server:
  port: 70000
`))
	if err == nil {
		t.Fatal("Expected validation error")
	}

	for _, fragment := range []string{"Unknown log level", "Unknown log format", "Invalid server port"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Expected error to mention %q, got: %v", fragment, err)
		}
	}
}

func TestIsValidAPIKey(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"", false},
		{"your-api-key", false},
		{"CHANGE_ME", false},
		{"AIzaSyExample", true},
	}

	for _, tt := range tests {
		if got := IsValidAPIKey(tt.key); got != tt.expected {
			t.Errorf("IsValidAPIKey(%q) = %v, want %v", tt.key, got, tt.expected)
		}
	}
}
