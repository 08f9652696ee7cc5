// Package slip keeps the user's selected props and prices them as a parlay.
package slip

import (
	"strconv"
	"strings"

	"courtside/internal/core"

	"github.com/shopspring/decimal"
)

// ExportHeader opens every exported slip.
const ExportHeader = "🏆 COURTSIDE IQ SLIP 🏆"

// legPrice is standard -110 juice expressed as decimal odds.
var legPrice = decimal.RequireFromString("1.91")

// Slip is an ordered selection of props, at most one per player and stat.
// It is not safe for concurrent use.
type Slip struct {
	props []core.PropPrediction
}

// New creates a slip holding props, dropping repeated player/stat pairs.
func New(props ...core.PropPrediction) *Slip {
	s := &Slip{}
	for _, p := range props {
		s.Add(p)
	}
	return s
}

// Add appends p unless the slip already holds its player and stat.
// It reports whether p was added.
func (s *Slip) Add(p core.PropPrediction) bool {
	if s.Contains(p) {
		return false
	}
	s.props = append(s.props, p)
	return true
}

// Remove drops the prop with p's player and stat. It reports whether one was held.
func (s *Slip) Remove(p core.PropPrediction) bool {
	key := p.Key()
	for i, held := range s.props {
		if held.Key() == key {
			s.props = append(s.props[:i], s.props[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle removes p if held and adds it otherwise. It reports whether p is
// on the slip afterwards.
func (s *Slip) Toggle(p core.PropPrediction) bool {
	if s.Remove(p) {
		return false
	}
	s.props = append(s.props, p)
	return true
}

// Contains reports whether the slip holds p's player and stat.
func (s *Slip) Contains(p core.PropPrediction) bool {
	key := p.Key()
	for _, held := range s.props {
		if held.Key() == key {
			return true
		}
	}
	return false
}

// Clear empties the slip.
func (s *Slip) Clear() {
	s.props = nil
}

// Props returns a copy of the held props in selection order.
func (s *Slip) Props() []core.PropPrediction {
	out := make([]core.PropPrediction, len(s.props))
	copy(out, s.props)
	return out
}

// Len returns the number of legs.
func (s *Slip) Len() int {
	return len(s.props)
}

// DecimalOdds returns the combined decimal price of n legs at -110 each.
func DecimalOdds(legs int) decimal.Decimal {
	if legs <= 0 {
		return decimal.NewFromInt(1)
	}
	return legPrice.Pow(decimal.NewFromInt(int64(legs)))
}

// American formats decimal odds in the American style: "+265" for prices of
// 2.0 and above, "-110" below. Prices of 1.0 or less have no American form
// and return "N/A".
func American(d decimal.Decimal) string {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	if d.LessThanOrEqual(one) {
		return "N/A"
	}
	profit := d.Sub(one)
	if d.GreaterThanOrEqual(decimal.NewFromInt(2)) {
		return "+" + profit.Mul(hundred).Round(0).String()
	}
	return "-" + hundred.Div(profit).Round(0).String()
}

// Odds returns the estimated American odds of the whole slip.
func (s *Slip) Odds() string {
	return American(DecimalOdds(len(s.props)))
}

// Line renders one leg as "<player> <prediction> <line> <stat>".
func Line(p core.PropPrediction) string {
	return strings.Join([]string{
		p.Player,
		string(p.Prediction),
		strconv.FormatFloat(p.Line, 'f', -1, 64),
		p.Stat,
	}, " ")
}

// Export returns the plain-text payload a user pastes elsewhere.
func (s *Slip) Export() string {
	lines := make([]string, len(s.props))
	for i, p := range s.props {
		lines[i] = Line(p)
	}

	var b strings.Builder
	b.WriteString(ExportHeader)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nEst. Odds: ")
	b.WriteString(s.Odds())
	return b.String()
}
