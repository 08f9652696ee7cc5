// Package tui is the interactive terminal front-end: pick a game, read the
// prop cards, and build a slip.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"courtside/internal/analysis"
	"courtside/internal/core"
	"courtside/internal/logger"
	"courtside/internal/render"
	"courtside/internal/slip"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewState is the screen currently shown.
type ViewState int

const (
	StateHome ViewState = iota
	StateLoadingGames
	StateSelectGame
	StateAnalyzing
	StateResults
)

func (v ViewState) String() string {
	switch v {
	case StateHome:
		return "HOME"
	case StateLoadingGames:
		return "LOADING_GAMES"
	case StateSelectGame:
		return "SELECT_GAME"
	case StateAnalyzing:
		return "ANALYZING"
	case StateResults:
		return "RESULTS"
	}
	return "UNKNOWN"
}

const analysisFailedMessage = "Analysis failed. Please try again. The AI might be overloaded."

// GameSource lists upcoming games.
type GameSource interface {
	Upcoming(ctx context.Context) []core.Game
}

// Analyzer produces a prop analysis for one game.
type Analyzer interface {
	Analyze(ctx context.Context, game core.Game, filter core.PropFilter) (core.AnalysisResult, error)
}

type gamesLoadedMsg struct {
	games []core.Game
}

type analysisDoneMsg struct {
	generation uint64
	result     core.AnalysisResult
	err        error
}

// Model represents the state of the TUI application.
type Model struct {
	ctx      context.Context
	games    GameSource
	analyzer Analyzer
	session  *analysis.Session

	state    ViewState
	schedule []core.Game
	selected core.Game
	result   core.AnalysisResult
	filter   core.PropFilter
	slip     *slip.Slip
	cursor   int
	message  string
	exported string
	width    int
	height   int
	quitting bool
}

// NewModel returns the initial state of the TUI model.
func NewModel(ctx context.Context, games GameSource, analyzer Analyzer) Model {
	return Model{
		ctx:      ctx,
		games:    games,
		analyzer: analyzer,
		session:  &analysis.Session{},
		state:    StateHome,
		filter:   core.FilterAll,
		slip:     slip.New(),
	}
}

// State returns the current view state.
func (m Model) State() ViewState { return m.state }

// Slip returns the props selected so far.
func (m Model) Slip() *slip.Slip { return m.slip }

// Init is the first command that will be run. We don't need any for now.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) loadGames() tea.Cmd {
	return func() tea.Msg {
		return gamesLoadedMsg{games: m.games.Upcoming(m.ctx)}
	}
}

func (m Model) analyze(game core.Game, filter core.PropFilter) tea.Cmd {
	ticket := m.session.Begin(m.ctx)
	session, analyzer := m.session, m.analyzer
	return func() tea.Msg {
		result, err := analyzer.Analyze(ticket.Context(), game, filter)
		if finishErr := session.Finish(ticket); finishErr != nil {
			err = finishErr
		}
		return analysisDoneMsg{generation: ticket.Generation, result: result, err: err}
	}
}

// visibleProps are the result's props passing the current filter.
func (m Model) visibleProps() []core.PropPrediction {
	return m.result.FilterProps(m.filter)
}

// Update handles messages and updates the model accordingly.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case gamesLoadedMsg:
		if m.state != StateLoadingGames {
			return m, nil
		}
		m.schedule = msg.games
		m.cursor = 0
		m.state = StateSelectGame
		return m, nil

	case analysisDoneMsg:
		if errors.Is(msg.err, analysis.ErrStale) || !m.session.Current(msg.generation) || m.state != StateAnalyzing {
			logger.Debug("Dropping stale analysis", "generation", msg.generation)
			return m, nil
		}
		if msg.err != nil {
			logger.Error("Analysis failed", msg.err, "game", m.selected.Matchup())
			m.message = analysisFailedMessage
			m.state = StateSelectGame
			return m, nil
		}
		m.result = msg.result
		m.cursor = 0
		m.state = StateResults
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		m.session.Reset()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateHome:
		if key == "enter" {
			m.state = StateLoadingGames
			m.message = ""
			return m, m.loadGames()
		}

	case StateSelectGame:
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.schedule)-1 {
				m.cursor++
			}
		case "f":
			m.filter = nextFilter(m.filter)
		case "r":
			m.state = StateLoadingGames
			return m, m.loadGames()
		case "esc":
			m.state = StateHome
		case "enter":
			if len(m.schedule) == 0 {
				return m, nil
			}
			m.selected = m.schedule[m.cursor]
			m.message = ""
			m.state = StateAnalyzing
			return m, m.analyze(m.selected, m.filter)
		}

	case StateAnalyzing:
		if key == "esc" {
			m.session.Reset()
			m.state = StateSelectGame
		}

	case StateResults:
		props := m.visibleProps()
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(props)-1 {
				m.cursor++
			}
		case "f":
			m.filter = nextFilter(m.filter)
			m.cursor = 0
		case " ", "enter":
			if m.cursor < len(props) {
				m.slip.Toggle(props[m.cursor])
			}
		case "x":
			if m.slip.Len() > 0 {
				m.exported = m.slip.Export()
			}
		case "esc", "b":
			// Leaving a game clears its slip
			m.result = core.AnalysisResult{}
			m.slip.Clear()
			m.exported = ""
			m.cursor = 0
			m.state = StateSelectGame
		}
	}

	return m, nil
}

func nextFilter(f core.PropFilter) core.PropFilter {
	switch f {
	case core.FilterAll:
		return core.FilterOver
	case core.FilterOver:
		return core.FilterUnder
	}
	return core.FilterAll
}

var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00F0FF"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3131"))
	selectedStyle = lipgloss.NewStyle().Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#00F0FF"))
	slipStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#00F0FF")).Padding(0, 1)
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("COURTSIDE ") + accentStyle.Render("IQ"))
	if m.state == StateResults || m.state == StateSelectGame {
		b.WriteString(helpStyle.Render(fmt.Sprintf("   filter: %s", m.filter)))
	}
	b.WriteString("\n\n")

	if m.message != "" {
		b.WriteString(alertStyle.Render(m.message) + "\n\n")
	}

	switch m.state {
	case StateHome:
		b.WriteString(headerStyle.Render("BEAT THE BOOKS.") + "\n\n")
		b.WriteString("Live search grounded prop analysis for every NBA matchup.\n\n")
		b.WriteString(helpStyle.Render("[enter] Enter | [q] Quit"))

	case StateLoadingGames:
		b.WriteString("Scanning NBA schedule via Google Search...\n")

	case StateSelectGame:
		if len(m.schedule) == 0 {
			b.WriteString("No games found. Press r to search again.\n")
		}
		for i, g := range m.schedule {
			line := fmt.Sprintf("%s  %s", g.Matchup(), helpStyle.Render(strings.TrimSpace(g.Date+" "+g.Time)))
			if i == m.cursor {
				b.WriteString(selectedStyle.Render(" "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
		b.WriteString("\n" + helpStyle.Render("[↑/k] Up | [↓/j] Down | [enter] Analyze | [f] Filter | [r] Reload | [q] Quit"))

	case StateAnalyzing:
		b.WriteString(fmt.Sprintf("Initializing 7-Point Deep Dive Protocol for %s vs %s...\n\n", m.selected.AwayTeam, m.selected.HomeTeam))
		b.WriteString(helpStyle.Render("[esc] Cancel"))

	case StateResults:
		b.WriteString(m.resultsView())
	}

	return docStyle.Render(b.String())
}

func (m Model) resultsView() string {
	var b strings.Builder

	b.WriteString(accentStyle.Render(m.result.Game.Matchup()) + "\n")
	b.WriteString(render.Market(m.result.MarketContext) + "\n\n")

	props := m.visibleProps()
	if len(props) == 0 {
		b.WriteString("No props match this filter.\n")
	}
	for i, p := range props {
		mark := "[ ]"
		if m.slip.Contains(p) {
			mark = "[✓]"
		}
		if i == m.cursor {
			b.WriteString(mark + "\n" + selectedStyle.Render(render.Card(p)) + "\n")
		} else {
			b.WriteString(fmt.Sprintf("%s %s %s %s %s\n", mark, p.Player,
				render.DirectionStyle(p.Prediction).Render(string(p.Prediction)), render.FormatLine(p.Line), p.Stat))
		}
	}

	if m.slip.Len() > 0 {
		var legs []string
		for _, p := range m.slip.Props() {
			legs = append(legs, slip.Line(p))
		}
		summary := fmt.Sprintf("Active Slip (%d)  %s\n%s", m.slip.Len(), m.slip.Odds(), strings.Join(legs, "\n"))
		b.WriteString("\n" + slipStyle.Render(summary) + "\n")
	}
	if m.exported != "" {
		b.WriteString("\n" + m.exported + "\n")
	}

	if len(m.result.Sources) > 0 {
		b.WriteString("\n" + helpStyle.Render(fmt.Sprintf("%d sources", len(m.result.Sources))) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("[↑/↓] Move | [space] Add/Remove | [f] Filter | [x] Export slip | [b] Back | [q] Quit"))
	return b.String()
}

// Start initializes and runs the Bubble Tea application. When the user quits
// with props on the slip, the export text is written to out.
func Start(ctx context.Context, games GameSource, analyzer Analyzer, out io.Writer) error {
	p := tea.NewProgram(NewModel(ctx, games, analyzer), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if m, ok := final.(Model); ok && m.slip.Len() > 0 {
		fmt.Fprintln(out, m.slip.Export())
	}
	return nil
}
