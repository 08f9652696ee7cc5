// Package sanitize coerces loosely-typed parsed model output into the strict
// domain types. Nothing in this package fails: missing or mistyped fields are
// replaced with documented defaults so a partially broken response still renders.
package sanitize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"courtside/internal/core"
)

// DefaultConfidence is used when a prop's confidence is not a number.
const DefaultConfidence = 5

// Report counts the defaults substituted while sanitizing one response.
type Report struct {
	MarketContextDefaulted bool // marketContext absent or not an object
	MarketFieldsDefaulted  int  // individual marketContext fields filled in
	PropsSkipped           int  // props entries that were not objects
	ConfidenceDefaulted    int  // props whose confidence was not a number
	Last5Coerced           int  // last5Values elements that were not numbers
	Last5Missing           int  // props whose last5Values was absent or not an array
	ProtocolDefaulted      int  // props without a protocolAnalysis object
}

// Analysis builds an AnalysisResult from the parsed response body and the
// grounding citations of the same response.
func Analysis(value any, game core.Game, citations []core.Citation) core.AnalysisResult {
	result, _ := AnalysisWithReport(value, game, citations)
	return result
}

// AnalysisWithReport is Analysis that also reports which defaults were applied.
func AnalysisWithReport(value any, game core.Game, citations []core.Citation) (core.AnalysisResult, Report) {
	var report Report

	// A non-object top level is treated as an empty object
	obj, _ := value.(map[string]any)

	result := core.AnalysisResult{
		Game:          game,
		MarketContext: marketContext(obj["marketContext"], &report),
		Props:         props(obj["props"], &report),
		Sources:       Sources(citations),
	}
	return result, report
}

// MarketContext coerces a marketContext value. A missing or non-object value
// yields core.DefaultMarketContext; an object has each missing or blank field
// filled from the default individually.
func MarketContext(v any) core.MarketContext {
	var report Report
	return marketContext(v, &report)
}

func marketContext(v any, report *Report) core.MarketContext {
	def := core.DefaultMarketContext()

	m, ok := v.(map[string]any)
	if !ok {
		report.MarketContextDefaulted = true
		return def
	}

	field := func(key, fallback string) string {
		s := String(m[key])
		if strings.TrimSpace(s) == "" {
			report.MarketFieldsDefaulted++
			return fallback
		}
		return s
	}

	return core.MarketContext{
		Spread:  field("spread", def.Spread),
		Total:   field("total", def.Total),
		Summary: field("summary", def.Summary),
	}
}

// Props coerces a props value. Anything but an array yields an empty slice;
// array elements that are not objects are dropped.
func Props(v any) []core.PropPrediction {
	var report Report
	return props(v, &report)
}

func props(v any, report *Report) []core.PropPrediction {
	items, _ := v.([]any)

	out := make([]core.PropPrediction, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			report.PropsSkipped++
			continue
		}
		out = append(out, prop(m, report))
	}
	return out
}

// Prop coerces a single props entry. Free-text fields are taken verbatim.
func Prop(m map[string]any) core.PropPrediction {
	var report Report
	return prop(m, &report)
}

func prop(m map[string]any, report *Report) core.PropPrediction {
	confidence, ok := confidenceValue(m["confidence"])
	if !ok {
		report.ConfidenceDefaulted++
	}

	last5, coerced, isArray := numbers(m["last5Values"])
	report.Last5Coerced += coerced
	if !isArray {
		report.Last5Missing++
	}

	pa, ok := m["protocolAnalysis"].(map[string]any)
	if !ok {
		report.ProtocolDefaulted++
	}

	return core.PropPrediction{
		Player:       String(m["player"]),
		Team:         String(m["team"]),
		Stat:         String(m["stat"]),
		Line:         Number(m["line"]),
		Prediction:   core.ParseDirection(String(m["prediction"])),
		Confidence:   confidence,
		Rationale:    String(m["rationale"]),
		XFactor:      String(m["xFactor"]),
		Last5History: String(m["last5History"]),
		AverageLast5: Number(m["averageLast5"]),
		Last5Values:  last5,
		OpponentRank: String(m["opponentRank"]),
		ProtocolAnalysis: core.ProtocolAnalysis{
			RefereeFactor:  String(pa["refereeFactor"]),
			InjuryIntel:    String(pa["injuryIntel"]),
			SchemeMismatch: String(pa["schemeMismatch"]),
			SharpMoney:     String(pa["sharpMoney"]),
		},
	}
}

// confidenceValue accepts only real numbers that fit an int32, rounded to the
// nearest integer.
func confidenceValue(v any) (int, bool) {
	f, ok := numeric(v)
	if !ok || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return DefaultConfidence, false
	}
	return int(math.Round(f)), true
}

// numbers coerces v into a slice of numbers through Number. A non-array
// yields an empty slice; the count is how many elements were not numbers.
func numbers(v any) ([]float64, int, bool) {
	items, ok := v.([]any)
	if !ok {
		return []float64{}, 0, false
	}

	coerced := 0
	out := make([]float64, len(items))
	for i, item := range items {
		if _, isNum := numeric(item); !isNum {
			coerced++
		}
		out[i] = Number(item)
	}
	return out, coerced, true
}

// Number converts v to a finite float64. Numbers pass through, numeric
// strings are parsed, true is 1, and everything else (including null, NaN
// and infinities) is 0.
func Number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case bool:
		if x {
			f = 1
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		n, ok := numeric(v)
		if !ok {
			return 0
		}
		f = n
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// numeric reports the value of a JSON number in any of the forms a decoder may produce.
func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// String converts a scalar to its text form. Null, objects and arrays become "".
func String(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// Sources projects grounding citations to Sources, keeping only those with a
// web reference. Order is preserved; nothing is deduplicated or validated.
func Sources(citations []core.Citation) []core.Source {
	out := make([]core.Source, 0, len(citations))
	for _, c := range citations {
		if c.Web == nil {
			continue
		}
		out = append(out, core.Source{Title: c.Web.Title, URI: c.Web.URI})
	}
	return out
}
