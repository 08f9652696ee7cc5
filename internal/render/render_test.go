package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"courtside/internal/core"
)

func sampleResult() core.AnalysisResult {
	return core.AnalysisResult{
		Game: core.Game{
			ID:       "LAL-DEN-20241022",
			HomeTeam: "Denver Nuggets",
			AwayTeam: "Los Angeles Lakers",
			Time:     "10:00 PM ET",
			Date:     "Oct 22",
		},
		MarketContext: core.MarketContext{Spread: "DEN -5.5", Total: "O/U 229.5", Summary: "Sharp money on the over."},
		Props: []core.PropPrediction{
			{
				Player:       "Nikola Jokic",
				Team:         "Denver Nuggets",
				Stat:         "Rebounds",
				Line:         12.5,
				Prediction:   core.Over,
				Confidence:   8,
				Rationale:    "Lakers are thin at center.",
				XFactor:      "Davis questionable",
				AverageLast5: 14.2,
				Last5Values:  []float64{13, 15, 11, 16, 16},
				OpponentRank: "27th (Soft)",
				ProtocolAnalysis: core.ProtocolAnalysis{
					RefereeFactor: "Assignments pending",
					SharpMoney:    "Line moved from 11.5",
				},
			},
			{
				Player:       "Austin Reaves",
				Team:         "Los Angeles Lakers",
				Stat:         "Points",
				Line:         16,
				Prediction:   core.Under,
				Confidence:   6,
				Last5History: "3/5",
				Last5Values:  []float64{},
			},
		},
		Sources: []core.Source{{Title: "ESPN", URI: "https://espn.com/nba"}},
	}
}

func TestHitRate(t *testing.T) {
	tests := []struct {
		name     string
		prop     core.PropPrediction
		expected string
	}{
		{"model string wins", core.PropPrediction{Last5History: "4/5", Last5Values: []float64{1}}, "4/5"},
		{"over computed", core.PropPrediction{Prediction: core.Over, Line: 12.5, Last5Values: []float64{13, 15, 11, 16, 16}}, "4/5"},
		{"under computed", core.PropPrediction{Prediction: core.Under, Line: 20, Last5Values: []float64{18, 22, 20}}, "1/3"},
		{"no log", core.PropPrediction{}, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitRate(tt.prop); got != tt.expected {
				t.Errorf("HitRate() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestTrendAndMeter(t *testing.T) {
	if got := Trend(nil, 10); got != "no game log" {
		t.Errorf("Unexpected empty trend: %q", got)
	}
	if got := Trend([]float64{0, 20, 10}, 10); got != "▁█▄" {
		t.Errorf("Unexpected trend: %q", got)
	}
	if got := ConfidenceMeter(8); got != "■■■■■■■■□□" {
		t.Errorf("Unexpected meter: %q", got)
	}
	if got := ConfidenceMeter(42); got != "■■■■■■■■■■" {
		t.Errorf("Meter should clamp, got %q", got)
	}
}

func TestText(t *testing.T) {
	out := Text(sampleResult(), core.FilterOver)

	for _, want := range []string{"Los Angeles Lakers @ Denver Nuggets", "DEN -5.5", "Nikola Jokic", "OVER 12.5", "Assignments pending", "ESPN"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in text output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Austin Reaves") {
		t.Error("UNDER prop should be filtered out")
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResult(), core.FilterAll)

	checks := []string{
		"# Los Angeles Lakers @ Denver Nuggets",
		"| DEN -5.5 | O/U 229.5 |",
		"### 1. Nikola Jokic: OVER 12.5 Rebounds",
		"**Last 5:** 13, 15, 11, 16, 16 (hit 4/5, avg 14.2)",
		"- **Sharp money:** Line moved from 11.5",
		"### 2. Austin Reaves: UNDER 16 Points",
		"**Last 5:** none (hit 3/5, avg 0)",
		"1. [ESPN](https://espn.com/nba)",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("Expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestHTML(t *testing.T) {
	out := HTML(sampleResult(), core.FilterAll)

	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<table>") {
		t.Errorf("Expected heading and table in HTML:\n%s", out)
	}
	if !strings.Contains(out, `target="_blank"`) {
		t.Error("Expected external links to open in a new tab")
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleResult(), core.FilterUnder)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded core.AnalysisResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded.Props) != 1 || decoded.Props[0].Player != "Austin Reaves" {
		t.Errorf("Expected only the UNDER prop, got %+v", decoded.Props)
	}
	if !strings.Contains(string(data), `"last5Values": []`) {
		t.Error("Empty last5Values should encode as an array")
	}
}

func TestFormatUnknown(t *testing.T) {
	if _, err := Format(sampleResult(), core.FilterAll, "pdf"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestWriteReport(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		format string
		file   string
	}{
		{FormatMarkdown, "los-angeles-lakers-denver-nuggets_oct-22.md"},
		{FormatHTML, "los-angeles-lakers-denver-nuggets_oct-22.html"},
		{FormatJSON, "los-angeles-lakers-denver-nuggets_oct-22.json"},
		{FormatText, "los-angeles-lakers-denver-nuggets_oct-22.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path, err := WriteReport(sampleResult(), core.FilterAll, filepath.Join(tmpDir, "reports"), tt.format)
			if err != nil {
				t.Fatalf("WriteReport failed: %v", err)
			}
			if filepath.Base(path) != tt.file {
				t.Errorf("Expected file %s, got %s", tt.file, filepath.Base(path))
			}

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read report: %v", err)
			}
			if !strings.Contains(string(content), "Nikola Jokic") {
				t.Error("Report should contain the props")
			}
		})
	}
}
