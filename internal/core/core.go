package core

import (
	"fmt"
	"strings"
)

// Game represents one scheduled NBA matchup as reported by the schedule lookup.
type Game struct {
	ID       string `json:"id"`                // Unique identifier (e.g. "LAL-GSW-20240520")
	HomeTeam string `json:"homeTeam"`          // Full home team name
	AwayTeam string `json:"awayTeam"`          // Full away team name
	Time     string `json:"time"`              // Tip-off time as displayed (e.g. "7:30 PM ET")
	Date     string `json:"date"`              // Game date as displayed (e.g. "Oct 24")
	UTCTime  string `json:"utcTime,omitempty"` // Optional machine-readable tip-off time
}

// Matchup returns the "Away @ Home" label used in prompts and headings.
func (g Game) Matchup() string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}

// MarketContext holds game-level betting lines.
type MarketContext struct {
	Spread  string `json:"spread"`  // e.g. "LAL -4.5"
	Total   string `json:"total"`   // e.g. "O/U 228.5"
	Summary string `json:"summary"` // One sentence on sharp money
}

const (
	defaultSpread        = "N/A"
	defaultTotal         = "N/A"
	defaultMarketSummary = "Market data unavailable"
)

// DefaultMarketContext is substituted when the model reports no market data.
func DefaultMarketContext() MarketContext {
	return MarketContext{
		Spread:  defaultSpread,
		Total:   defaultTotal,
		Summary: defaultMarketSummary,
	}
}

// Direction is the side of a prop line.
type Direction string

const (
	Over  Direction = "OVER"
	Under Direction = "UNDER"
)

// ParseDirection upper-cases and trims a direction string. Values other than
// OVER/UNDER are returned as given; free text from the model is not rejected.
func ParseDirection(s string) Direction {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case Over, Under:
		return d
	}
	return Direction(strings.TrimSpace(s))
}

// ProtocolAnalysis carries the four optional deep-dive insights for a prop.
type ProtocolAnalysis struct {
	RefereeFactor  string `json:"refereeFactor,omitempty"`
	InjuryIntel    string `json:"injuryIntel,omitempty"`
	SchemeMismatch string `json:"schemeMismatch,omitempty"`
	SharpMoney     string `json:"sharpMoney,omitempty"`
}

// IsEmpty reports whether no insight was provided.
func (p ProtocolAnalysis) IsEmpty() bool {
	return p == ProtocolAnalysis{}
}

// PropPrediction is a single player prop recommendation.
type PropPrediction struct {
	Player           string           `json:"player"`
	Team             string           `json:"team"`
	Stat             string           `json:"stat"` // e.g. "Points", "Rebounds + Assists"
	Line             float64          `json:"line"`
	Prediction       Direction        `json:"prediction"`
	Confidence       int              `json:"confidence"` // 1-10
	Rationale        string           `json:"rationale"`
	XFactor          string           `json:"xFactor"`
	Last5History     string           `json:"last5History"` // e.g. "4/5"
	AverageLast5     float64          `json:"averageLast5"`
	Last5Values      []float64        `json:"last5Values"`  // oldest to newest
	OpponentRank     string           `json:"opponentRank"` // e.g. "28th (Soft)"
	ProtocolAnalysis ProtocolAnalysis `json:"protocolAnalysis"`
}

// Key identifies a prop within a slip. A player holds at most one position
// per stat, so the line and direction are not part of it.
func (p PropPrediction) Key() string {
	return p.Player + "|" + p.Stat
}

// Source is a web citation returned alongside a grounded model response.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// WebReference is the web part of a grounding citation.
type WebReference struct {
	Title string
	URI   string
}

// Citation is one grounding chunk from the model's response metadata.
// Only chunks with a Web reference become Sources.
type Citation struct {
	Web *WebReference
}

// AnalysisResult is the fully sanitized outcome of one game analysis.
type AnalysisResult struct {
	Game          Game             `json:"game"`
	MarketContext MarketContext    `json:"marketContext"`
	Props         []PropPrediction `json:"props"`
	Sources       []Source         `json:"sources"`
}

// PropFilter restricts analysis to one side of the line.
type PropFilter string

const (
	FilterAll   PropFilter = "ALL"
	FilterOver  PropFilter = "OVER"
	FilterUnder PropFilter = "UNDER"
)

// ParsePropFilter accepts all/over/under in any case. Empty means ALL.
func ParsePropFilter(s string) (PropFilter, error) {
	switch PropFilter(strings.ToUpper(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterOver:
		return FilterOver, nil
	case FilterUnder:
		return FilterUnder, nil
	}
	return "", fmt.Errorf("invalid prop filter %q: expected ALL, OVER or UNDER", s)
}

// Matches reports whether a prop passes the filter.
func (f PropFilter) Matches(p PropPrediction) bool {
	if f == "" || f == FilterAll {
		return true
	}
	return string(p.Prediction) == string(f)
}

// FilterProps returns the props passing f in emission order. The result is
// never mutated; a new slice is returned.
func (r AnalysisResult) FilterProps(f PropFilter) []PropPrediction {
	out := make([]PropPrediction, 0, len(r.Props))
	for _, p := range r.Props {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
