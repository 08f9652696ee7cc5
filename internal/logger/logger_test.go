package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	ConfigureOutput(&buf, "info", "json")

	Debug("hidden")
	Error("remote call failed", errors.New("boom"), "game_id", "LAL-GSW")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON log line: %v", err)
	}
	if entry["msg"] != "remote call failed" {
		t.Errorf("Unexpected msg: %v", entry["msg"])
	}
	if entry["error"] != "boom" {
		t.Errorf("Expected error attribute, got %v", entry["error"])
	}
	if entry["game_id"] != "LAL-GSW" {
		t.Errorf("Expected game_id attribute, got %v", entry["game_id"])
	}
}

func TestConfigureText(t *testing.T) {
	var buf bytes.Buffer
	ConfigureOutput(&buf, "debug", "text")

	Debug("normalizer stage", "stage", "repaired")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "stage=repaired") {
		t.Errorf("Expected text handler output, got %q", out)
	}
}
