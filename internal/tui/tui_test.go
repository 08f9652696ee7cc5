package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"courtside/internal/core"

	tea "github.com/charmbracelet/bubbletea"
)

// mockGames is a test double for GameSource
type mockGames struct {
	games []core.Game
	calls int
}

func (m *mockGames) Upcoming(ctx context.Context) []core.Game {
	m.calls++
	return m.games
}

// mockAnalyzer is a test double for Analyzer
type mockAnalyzer struct {
	result core.AnalysisResult
	err    error
	filter core.PropFilter
}

func (m *mockAnalyzer) Analyze(ctx context.Context, game core.Game, filter core.PropFilter) (core.AnalysisResult, error) {
	m.filter = filter
	if m.err != nil {
		return core.AnalysisResult{}, m.err
	}
	result := m.result
	result.Game = game
	return result, nil
}

var games = []core.Game{
	{ID: "LAL-DEN", HomeTeam: "Denver Nuggets", AwayTeam: "Los Angeles Lakers"},
	{ID: "PHX-GSW", HomeTeam: "Golden State Warriors", AwayTeam: "Phoenix Suns"},
}

var sampleResult = core.AnalysisResult{
	MarketContext: core.DefaultMarketContext(),
	Props: []core.PropPrediction{
		{Player: "Stephen Curry", Stat: "3PM", Line: 4.5, Prediction: core.Over, Confidence: 8},
		{Player: "Devin Booker", Stat: "Points", Line: 27.5, Prediction: core.Under, Confidence: 6},
	},
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// send applies msg and runs any resulting command once, feeding its message back.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestFlowToResults(t *testing.T) {
	analyzer := &mockAnalyzer{result: sampleResult}
	m := NewModel(context.Background(), &mockGames{games: games}, analyzer)

	if m.State() != StateHome {
		t.Fatalf("Expected HOME, got %s", m.State())
	}

	m = send(t, m, key("enter"))
	if m.State() != StateSelectGame || len(m.schedule) != 2 {
		t.Fatalf("Expected SELECT_GAME with 2 games, got %s with %d", m.State(), len(m.schedule))
	}

	m = send(t, m, key("down"))
	m = send(t, m, key("f"))
	if m.filter != core.FilterOver {
		t.Errorf("Expected OVER filter, got %s", m.filter)
	}

	m = send(t, m, key("enter"))
	if m.State() != StateResults {
		t.Fatalf("Expected RESULTS, got %s (message %q)", m.State(), m.message)
	}
	if m.result.Game.ID != "PHX-GSW" {
		t.Errorf("Expected second game analyzed, got %s", m.result.Game.ID)
	}
	if analyzer.filter != core.FilterOver {
		t.Errorf("Expected filter passed to analyzer, got %s", analyzer.filter)
	}
	if len(m.visibleProps()) != 1 {
		t.Errorf("Expected only OVER props visible, got %d", len(m.visibleProps()))
	}
}

func TestSlipAndBack(t *testing.T) {
	m := NewModel(context.Background(), &mockGames{games: games}, &mockAnalyzer{result: sampleResult})
	m = send(t, m, key("enter"))
	m = send(t, m, key("enter"))

	m = send(t, m, key(" "))
	if m.Slip().Len() != 1 {
		t.Fatalf("Expected one leg on slip, got %d", m.Slip().Len())
	}
	m = send(t, m, key("x"))
	if !strings.Contains(m.exported, "Stephen Curry OVER 4.5 3PM") {
		t.Errorf("Unexpected export: %q", m.exported)
	}
	if !strings.Contains(m.View(), "Active Slip (1)") {
		t.Error("Expected slip summary in view")
	}

	m = send(t, m, key(" "))
	if m.Slip().Len() != 0 {
		t.Error("Second toggle should remove the leg")
	}

	m = send(t, m, key(" "))
	m = send(t, m, key("b"))
	if m.State() != StateSelectGame {
		t.Errorf("Expected SELECT_GAME after back, got %s", m.State())
	}
	if m.Slip().Len() != 0 {
		t.Error("Going back should clear the slip")
	}
}

func TestAnalysisFailureReturnsToSelection(t *testing.T) {
	m := NewModel(context.Background(), &mockGames{games: games}, &mockAnalyzer{err: errors.New("overloaded")})
	m = send(t, m, key("enter"))
	m = send(t, m, key("enter"))

	if m.State() != StateSelectGame {
		t.Fatalf("Expected SELECT_GAME after failure, got %s", m.State())
	}
	if m.message != analysisFailedMessage {
		t.Errorf("Expected failure message, got %q", m.message)
	}
}

func TestStaleAnalysisIgnored(t *testing.T) {
	m := NewModel(context.Background(), &mockGames{games: games}, &mockAnalyzer{result: sampleResult})
	m = send(t, m, key("enter"))

	// Start an analysis but hold its result
	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	if m.State() != StateAnalyzing {
		t.Fatalf("Expected ANALYZING, got %s", m.State())
	}

	// The user cancels, then the old result arrives
	m = send(t, m, key("esc"))
	next, _ = m.Update(cmd())
	m = next.(Model)

	if m.State() != StateSelectGame {
		t.Errorf("Stale result should not change the screen, got %s", m.State())
	}
	if len(m.result.Props) != 0 {
		t.Error("Stale result should be dropped")
	}
}

func TestEmptySchedule(t *testing.T) {
	m := NewModel(context.Background(), &mockGames{}, &mockAnalyzer{})
	m = send(t, m, key("enter"))
	m = send(t, m, key("enter"))

	if m.State() != StateSelectGame {
		t.Errorf("Enter with no games should stay on SELECT_GAME, got %s", m.State())
	}
	if !strings.Contains(m.View(), "No games found") {
		t.Error("Expected empty schedule notice")
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(context.Background(), &mockGames{}, &mockAnalyzer{})
	next, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if !next.(Model).quitting {
		t.Error("Model should be quitting")
	}
}
