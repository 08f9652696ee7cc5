package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"courtside/internal/analysis"
	"courtside/internal/config"
	"courtside/internal/core"
	"courtside/internal/llm"
	"courtside/internal/llm/llmtest"
	"courtside/internal/metrics"
	"courtside/internal/schedule"
)

const scheduleReply = "Sure! Here is the schedule:\n```json\n" + `[
  {"id": "BOS-NYK-20241022", "homeTeam": "New York Knicks", "awayTeam": "Boston Celtics", "time": "7:30 PM ET", "date": "Oct 22"},
]` + "\n```\nLet me know if you need anything else."

const analysisReply = `{
  "marketContext": {"spread": "BOS -3.5"},
  "props": [
    {"player": "Jayson Tatum", "team": "Boston Celtics", "stat": "Points", "line": 27.5, "prediction": "OVER", "confidence": 9,
     "last5Values": [31, 24, "29", null, 35], "protocolAnalysis": {"sharpMoney": "Moved from 26.5"}},
    {"player": "Jalen Brunson", "stat": "Assists", "line": 7.5, "prediction": "UNDER", "confidence": "medium", "last5Values":, },
  ],
}`

// TestPipeline drives the real schedule and analysis services through the
// HTTP API with a scripted model.
func TestPipeline(t *testing.T) {
	gen := &llmtest.MockGenerator{Replies: map[string]llm.Response{
		"schedule": {Text: scheduleReply},
		"analysis": {Text: analysisReply, Citations: []core.Citation{
			{Web: &core.WebReference{Title: "Basketball Reference", URI: "https://basketball-reference.com"}},
			{},
		}},
	}}
	m := metrics.New()
	traced := llm.NewTracedClient(gen, m)

	s := New(config.Server{},
		schedule.NewFetcher(traced, schedule.WithMetrics(m)),
		analysis.NewAnalyzer(traced, analysis.WithMetrics(m)),
		m)

	gamesRec := doRequest(s, http.MethodGet, "/api/games", nil, nil)
	var games GamesResponse
	if err := json.NewDecoder(gamesRec.Body).Decode(&games); err != nil {
		t.Fatalf("Failed to decode games: %v", err)
	}
	if len(games.Games) != 1 {
		t.Fatalf("Expected 1 game, got %d", len(games.Games))
	}

	rec := doRequest(s, http.MethodPost, "/api/analysis", AnalysisRequest{Game: games.Games[0], Filter: "ALL"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result core.AnalysisResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode analysis: %v", err)
	}

	if result.MarketContext.Spread != "BOS -3.5" || result.MarketContext.Total != "N/A" {
		t.Errorf("Expected partial market context filled per field, got %+v", result.MarketContext)
	}
	if len(result.Props) != 2 {
		t.Fatalf("Expected 2 props, got %d", len(result.Props))
	}
	if got := result.Props[0].Last5Values; len(got) != 5 || got[2] != 29 || got[3] != 0 {
		t.Errorf("Unexpected last5Values: %v", got)
	}
	if result.Props[1].Confidence != 5 || len(result.Props[1].Last5Values) != 0 {
		t.Errorf("Expected defaults on second prop, got %+v", result.Props[1])
	}
	if len(result.Sources) != 1 {
		t.Errorf("Expected one web source, got %d", len(result.Sources))
	}

	calls := gen.CallsFor("analysis")
	if len(calls) != 1 || !strings.Contains(calls[0].Prompt, "Boston Celtics @ New York Knicks") {
		t.Errorf("Expected one analysis call for the scheduled game, got %+v", calls)
	}

	slipRec := doRequest(s, http.MethodPost, "/api/slip", SlipRequest{Props: result.Props}, nil)
	var bet SlipResponse
	if err := json.NewDecoder(slipRec.Body).Decode(&bet); err != nil {
		t.Fatalf("Failed to decode slip: %v", err)
	}
	if !strings.Contains(bet.Export, "Jayson Tatum OVER 27.5 Points\nJalen Brunson UNDER 7.5 Assists") {
		t.Errorf("Unexpected export: %q", bet.Export)
	}
}
