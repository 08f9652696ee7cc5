// Package render turns analyses into terminal cards, markdown, HTML and JSON reports.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"courtside/internal/core"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Supported output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Markdown renders an analysis as a markdown report.
func Markdown(result core.AnalysisResult, filter core.PropFilter) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", result.Game.Matchup()))
	if when := strings.TrimSpace(result.Game.Date + " " + result.Game.Time); when != "" {
		b.WriteString(fmt.Sprintf("*%s*\n\n", when))
	}

	mc := result.MarketContext
	b.WriteString("## Market\n\n")
	b.WriteString("| Spread | Total |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| %s | %s |\n\n", escapeCell(mc.Spread), escapeCell(mc.Total)))
	b.WriteString(mc.Summary + "\n\n")

	if filter == "" {
		filter = core.FilterAll
	}
	props := result.FilterProps(filter)
	b.WriteString(fmt.Sprintf("## Props (%s)\n\n", filter))
	if len(props) == 0 {
		b.WriteString("No props match this filter.\n\n")
	}
	for i, p := range props {
		b.WriteString(fmt.Sprintf("### %d. %s: %s %s %s\n\n", i+1, p.Player, p.Prediction, FormatLine(p.Line), p.Stat))
		if p.Team != "" {
			b.WriteString(fmt.Sprintf("**Team:** %s  \n", p.Team))
		}
		b.WriteString(fmt.Sprintf("**Confidence:** %d/10  \n", p.Confidence))
		b.WriteString(fmt.Sprintf("**Last 5:** %s (hit %s, avg %s)  \n", formatValues(p.Last5Values), HitRate(p), FormatLine(p.AverageLast5)))
		if p.OpponentRank != "" {
			b.WriteString(fmt.Sprintf("**Opponent rank:** %s  \n", p.OpponentRank))
		}
		b.WriteString("\n")
		if p.Rationale != "" {
			b.WriteString(p.Rationale + "\n\n")
		}
		if p.XFactor != "" {
			b.WriteString(fmt.Sprintf("**X-Factor:** %s\n\n", p.XFactor))
		}

		pa := p.ProtocolAnalysis
		if !pa.IsEmpty() {
			for _, item := range []struct{ label, value string }{
				{"Referees", pa.RefereeFactor},
				{"Injury intel", pa.InjuryIntel},
				{"Scheme mismatch", pa.SchemeMismatch},
				{"Sharp money", pa.SharpMoney},
			} {
				if item.value != "" {
					b.WriteString(fmt.Sprintf("- **%s:** %s\n", item.label, item.value))
				}
			}
			b.WriteString("\n")
		}
	}

	if len(result.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for i, s := range result.Sources {
			b.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, s.Title, s.URI))
		}
	}

	return b.String()
}

// HTML renders the markdown report as an HTML fragment with external links
// opening in a new tab.
func HTML(result core.AnalysisResult, filter core.PropFilter) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})

	return string(markdown.ToHTML([]byte(Markdown(result, filter)), mdParser, renderer))
}

// JSON returns the indented wire form of an analysis with props narrowed to filter.
func JSON(result core.AnalysisResult, filter core.PropFilter) ([]byte, error) {
	result.Props = result.FilterProps(filter)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return data, nil
}

// Format renders result in one of the supported output formats.
func Format(result core.AnalysisResult, filter core.PropFilter, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return Text(result, filter), nil
	case FormatMarkdown, "md":
		return Markdown(result, filter), nil
	case FormatHTML:
		return HTML(result, filter), nil
	case FormatJSON:
		data, err := JSON(result, filter)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unsupported output format %q: expected text, json, markdown or html", format)
}

// WriteReport renders result and writes it under outputDir, returning the file path.
// The file is named after the matchup and date, e.g. "los-angeles-lakers-denver-nuggets_oct-22.md".
func WriteReport(result core.AnalysisResult, filter core.PropFilter, outputDir, format string) (string, error) {
	content, err := Format(result, filter, format)
	if err != nil {
		return "", err
	}

	if outputDir == "" {
		outputDir = "reports" // Default output directory
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filePath := filepath.Join(outputDir, reportFilename(result.Game, format))
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report file %s: %w", filePath, err)
	}

	return filePath, nil
}

func reportFilename(g core.Game, format string) string {
	name := slug(g.Matchup())
	if date := slug(g.Date); date != "" {
		name += "_" + date
	}
	if name == "" {
		name = "analysis"
	}

	ext := ".txt"
	switch strings.ToLower(format) {
	case FormatJSON:
		ext = ".json"
	case FormatMarkdown, "md":
		ext = ".md"
	case FormatHTML:
		ext = ".html"
	}
	return name + ext
}

func slug(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func formatValues(values []float64) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatLine(v)
	}
	return strings.Join(parts, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
