package core

import (
	"testing"
)

func TestGameMatchup(t *testing.T) {
	game := Game{ID: "LAL-GSW", HomeTeam: "Golden State Warriors", AwayTeam: "Los Angeles Lakers"}
	if got := game.Matchup(); got != "Los Angeles Lakers @ Golden State Warriors" {
		t.Errorf("Expected matchup label, got %s", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
	}{
		{"OVER", Over},
		{" under ", Under},
		{"Over", Over},
		{"PUSH", Direction("PUSH")},
		{"", Direction("")},
	}

	for _, tt := range tests {
		if got := ParseDirection(tt.input); got != tt.expected {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParsePropFilter(t *testing.T) {
	tests := []struct {
		input    string
		expected PropFilter
		wantErr  bool
	}{
		{"", FilterAll, false},
		{"all", FilterAll, false},
		{"Over", FilterOver, false},
		{"UNDER", FilterUnder, false},
		{"sideways", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePropFilter(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePropFilter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParsePropFilter(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFilterProps(t *testing.T) {
	result := AnalysisResult{
		Props: []PropPrediction{
			{Player: "A", Prediction: Over},
			{Player: "B", Prediction: Under},
			{Player: "C", Prediction: Over},
		},
	}

	overs := result.FilterProps(FilterOver)
	if len(overs) != 2 || overs[0].Player != "A" || overs[1].Player != "C" {
		t.Errorf("Expected A and C in order, got %+v", overs)
	}

	unders := result.FilterProps(FilterUnder)
	if len(unders) != 1 || unders[0].Player != "B" {
		t.Errorf("Expected only B, got %+v", unders)
	}

	if all := result.FilterProps(FilterAll); len(all) != 3 {
		t.Errorf("Expected all 3 props, got %d", len(all))
	}

	if len(result.Props) != 3 {
		t.Error("FilterProps should not mutate the result")
	}
}

func TestPropKey(t *testing.T) {
	over := PropPrediction{Player: "X", Stat: "Points", Line: 24.5, Prediction: Over}
	under := over
	under.Prediction = Under
	under.Line = 26.5

	if over.Key() != under.Key() {
		t.Error("Same player and stat should share a key regardless of line or direction")
	}

	rebounds := over
	rebounds.Stat = "Rebounds"
	if over.Key() == rebounds.Key() {
		t.Error("Different stats should have different keys")
	}
}

func TestProtocolAnalysisIsEmpty(t *testing.T) {
	if !(ProtocolAnalysis{}).IsEmpty() {
		t.Error("Zero value should be empty")
	}
	if (ProtocolAnalysis{InjuryIntel: "Questionable"}).IsEmpty() {
		t.Error("Analysis with a field should not be empty")
	}
}

func TestDefaultMarketContext(t *testing.T) {
	mc := DefaultMarketContext()
	if mc.Spread != "N/A" || mc.Total != "N/A" {
		t.Errorf("Unexpected default lines: %+v", mc)
	}
	if mc.Summary != "Market data unavailable" {
		t.Errorf("Unexpected default summary: %s", mc.Summary)
	}

	mc.Spread = "changed"
	if DefaultMarketContext().Spread != "N/A" {
		t.Error("Default market context should not be mutable through a copy")
	}
}
