package render

import (
	"fmt"
	"strconv"
	"strings"

	"courtside/internal/core"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00F0FF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	overStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#39FF14"))
	underStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF3131"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9F1C"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	marketStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#00F0FF")).Padding(0, 1)
)

// sparkBlocks are the eighth-height blocks used by Trend.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// DirectionStyle colors a direction like the prop cards do.
func DirectionStyle(d core.Direction) lipgloss.Style {
	if d == core.Under {
		return underStyle
	}
	return overStyle
}

// FormatLine renders a betting line without trailing zeros.
func FormatLine(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ConfidenceMeter draws confidence on a ten-cell bar, clamped to 0..10.
func ConfidenceMeter(confidence int) string {
	filled := min(max(confidence, 0), 10)
	return strings.Repeat("■", filled) + strings.Repeat("□", 10-filled)
}

// Trend draws the last five values as a sparkline scaled between zero and
// the larger of the highest value and the line.
func Trend(values []float64, line float64) string {
	if len(values) == 0 {
		return "no game log"
	}

	top := line
	for _, v := range values {
		top = max(top, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if top > 0 && v > 0 {
			idx = int(v / top * float64(len(sparkBlocks)-1))
		}
		b.WriteRune(sparkBlocks[min(idx, len(sparkBlocks)-1)])
	}
	return b.String()
}

// HitCount reports how many of the last five values cleared the line in the
// predicted direction.
func HitCount(p core.PropPrediction) (hits, games int) {
	for _, v := range p.Last5Values {
		switch {
		case p.Prediction == core.Under && v < p.Line:
			hits++
		case p.Prediction != core.Under && v > p.Line:
			hits++
		}
	}
	return hits, len(p.Last5Values)
}

// HitRate prefers the model's own hit-rate string and falls back to one
// computed from the game log.
func HitRate(p core.PropPrediction) string {
	if p.Last5History != "" {
		return p.Last5History
	}
	hits, games := HitCount(p)
	if games == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d/%d", hits, games)
}

// Card renders one prop for the terminal.
func Card(p core.PropPrediction) string {
	var b strings.Builder

	header := fmt.Sprintf("%s  %s", titleStyle.Render(p.Player), mutedStyle.Render(p.Team))
	b.WriteString(header + "\n")
	b.WriteString(DirectionStyle(p.Prediction).Render(fmt.Sprintf("%s %s", p.Prediction, FormatLine(p.Line))))
	b.WriteString(" " + p.Stat + "\n")
	b.WriteString(fmt.Sprintf("Confidence %s %d/10\n", ConfidenceMeter(p.Confidence), p.Confidence))
	b.WriteString(fmt.Sprintf("Last 5 %s  hit %s  avg %s", Trend(p.Last5Values, p.Line), HitRate(p), FormatLine(p.AverageLast5)))
	if p.OpponentRank != "" {
		b.WriteString(fmt.Sprintf("  opp %s", p.OpponentRank))
	}
	b.WriteString("\n")

	if p.Rationale != "" {
		b.WriteString("\n" + p.Rationale + "\n")
	}
	if p.XFactor != "" {
		b.WriteString(labelStyle.Render("X-Factor: ") + p.XFactor + "\n")
	}

	pa := p.ProtocolAnalysis
	for _, item := range []struct{ label, value string }{
		{"Refs", pa.RefereeFactor},
		{"Injuries", pa.InjuryIntel},
		{"Scheme", pa.SchemeMismatch},
		{"Sharp", pa.SharpMoney},
	} {
		if item.value != "" {
			b.WriteString(labelStyle.Render(item.label+": ") + item.value + "\n")
		}
	}

	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Market renders the game-level betting context.
func Market(mc core.MarketContext) string {
	body := fmt.Sprintf("Spread %s   Total %s\n%s", mc.Spread, mc.Total, mutedStyle.Render(mc.Summary))
	return marketStyle.Render(body)
}

// Text renders a full analysis for the terminal, showing only props that match filter.
func Text(result core.AnalysisResult, filter core.PropFilter) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(result.Game.Matchup()))
	if when := strings.TrimSpace(result.Game.Date + " " + result.Game.Time); when != "" {
		b.WriteString("  " + mutedStyle.Render(when))
	}
	b.WriteString("\n")
	b.WriteString(Market(result.MarketContext) + "\n\n")

	props := result.FilterProps(filter)
	if len(props) == 0 {
		b.WriteString(mutedStyle.Render("No props match this filter.") + "\n")
	}
	for _, p := range props {
		b.WriteString(Card(p) + "\n")
	}

	if len(result.Sources) > 0 {
		b.WriteString("\n" + labelStyle.Render("Sources") + "\n")
		for i, s := range result.Sources {
			b.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, s.Title, mutedStyle.Render(s.URI)))
		}
	}
	return b.String()
}

// Games renders a numbered schedule.
func Games(games []core.Game) string {
	if len(games) == 0 {
		return mutedStyle.Render("No games found.") + "\n"
	}

	var b strings.Builder
	for i, g := range games {
		b.WriteString(fmt.Sprintf("%2d. %s  %s  %s\n", i+1, g.Matchup(), mutedStyle.Render(strings.TrimSpace(g.Date+" "+g.Time)), mutedStyle.Render(g.ID)))
	}
	return b.String()
}
