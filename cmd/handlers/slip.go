package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"courtside/internal/core"
	"courtside/internal/extract"
	"courtside/internal/sanitize"
	"courtside/internal/slip"

	"github.com/spf13/cobra"
)

// NewSlipCmd creates the slip command
func NewSlipCmd() *cobra.Command {
	var (
		picks     []string
		filterArg string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "slip <analysis.json>",
		Short: "Build and price a bet slip from a saved analysis",
		Long: `Read an analysis saved with 'courtside analyze --format json --output <dir>'
and print the slip export with estimated parlay odds (-110 per leg).

Pick legs with --pick "Player:Stat" (repeatable). Without picks, every prop
passing --filter is added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := core.ParsePropFilter(filterArg)
			if err != nil {
				return err
			}

			result, err := loadAnalysis(args[0])
			if err != nil {
				return err
			}

			bet, err := buildSlip(result.FilterProps(filter), picks)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"legs":   bet.Len(),
					"props":  bet.Props(),
					"odds":   bet.Odds(),
					"export": bet.Export(),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), bet.Export())
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&picks, "pick", "p", nil, "Leg to add as \"Player:Stat\" (repeatable)")
	cmd.Flags().StringVarP(&filterArg, "filter", "f", "all", "Prop direction: all, over or under")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the slip as JSON")

	return cmd
}

// loadAnalysis reads a saved analysis. The file goes through the same
// normalizer and sanitizer as a model reply, so hand-edited files with
// trailing commas or missing fields still load.
func loadAnalysis(path string) (core.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.AnalysisResult{}, fmt.Errorf("failed to read analysis %s: %w", path, err)
	}

	value, err := extract.Structure(string(data))
	if err != nil {
		return core.AnalysisResult{}, fmt.Errorf("failed to parse analysis %s: %w", path, err)
	}

	obj, _ := value.(map[string]any)
	game := sanitize.Games([]any{obj["game"]})
	var ref core.Game
	if len(game) > 0 {
		ref = game[0]
	}

	result := sanitize.Analysis(value, ref, nil)
	result.Sources = savedSources(obj["sources"])
	return result, nil
}

// savedSources restores sources written by a previous analysis.
func savedSources(v any) []core.Source {
	items, _ := v.([]any)
	sources := make([]core.Source, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sources = append(sources, core.Source{Title: sanitize.String(m["title"]), URI: sanitize.String(m["uri"])})
	}
	return sources
}

// buildSlip adds the picked props, or all props when picks is empty.
func buildSlip(props []core.PropPrediction, picks []string) (*slip.Slip, error) {
	if len(picks) == 0 {
		if len(props) == 0 {
			return nil, fmt.Errorf("the analysis has no props to add")
		}
		return slip.New(props...), nil
	}

	bet := slip.New()
	for _, pick := range picks {
		player, stat, ok := strings.Cut(pick, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pick %q: expected \"Player:Stat\"", pick)
		}

		found := false
		for _, p := range props {
			if strings.EqualFold(p.Player, strings.TrimSpace(player)) && strings.EqualFold(p.Stat, strings.TrimSpace(stat)) {
				bet.Add(p)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no prop for %q in the analysis", pick)
		}
	}
	return bet, nil
}
