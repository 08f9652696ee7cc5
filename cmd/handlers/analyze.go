package handlers

import (
	"fmt"
	"strings"

	"courtside/internal/config"
	"courtside/internal/core"
	"courtside/internal/logger"
	"courtside/internal/render"
	"courtside/internal/schedule"

	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	var (
		gameRef   string
		home      string
		away      string
		date      string
		filterArg string
		format    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Deep dive player props for one matchup",
		Long: `Run a grounded prop analysis for a single game.

The game is either looked up in today's schedule with --game (an id, a team,
or "Away @ Home"), or given directly with --away and --home.

The filter narrows the search to OVER or UNDER props. Output goes to stdout
in the configured format, or to a report file when --output is set.

Examples:
  courtside analyze --game "Celtics @ Knicks"
  courtside analyze --away "Phoenix Suns" --home "Golden State Warriors" --date "Oct 22" --filter under
  courtside analyze --game LAL-DEN-20241022 --format html --output reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			filter, err := core.ParsePropFilter(filterArg)
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Output.Format
			}

			svc, err := newServices(cfg)
			if err != nil {
				return err
			}

			game, err := resolveGame(cmd, svc, gameRef, away, home, date)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Initializing 7-Point Deep Dive Protocol for %s vs %s...\n", game.AwayTeam, game.HomeTeam)

			result, err := svc.analyzer.Analyze(cmd.Context(), game, filter)
			if err != nil {
				return fmt.Errorf("analysis failed, please try again: %w", err)
			}

			if outputDir != "" {
				path, err := render.WriteReport(result, filter, outputDir, format)
				if err != nil {
					return err
				}
				logger.Info("Report written", "path", path)
				fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", path)
				return nil
			}

			out, err := render.Format(result, filter, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&gameRef, "game", "g", "", "Game id, team, or \"Away @ Home\" from today's schedule")
	cmd.Flags().StringVar(&home, "home", "", "Home team (skips the schedule lookup)")
	cmd.Flags().StringVar(&away, "away", "", "Away team (skips the schedule lookup)")
	cmd.Flags().StringVar(&date, "date", "", "Game date used in searches, e.g. \"Oct 22\"")
	cmd.Flags().StringVarP(&filterArg, "filter", "f", "all", "Prop direction: all, over or under")
	cmd.Flags().StringVar(&format, "format", "", "Output format: text, json, markdown or html (default from config)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Write the report to this directory instead of stdout")

	return cmd
}

// resolveGame builds the game from --away/--home, or finds --game in the schedule.
func resolveGame(cmd *cobra.Command, svc *services, ref, away, home, date string) (core.Game, error) {
	away, home = strings.TrimSpace(away), strings.TrimSpace(home)
	if away != "" || home != "" {
		if away == "" || home == "" {
			return core.Game{}, fmt.Errorf("both --away and --home are required")
		}
		return core.Game{HomeTeam: home, AwayTeam: away, Date: date}, nil
	}

	if strings.TrimSpace(ref) == "" {
		return core.Game{}, fmt.Errorf("specify a game with --game or with --away and --home")
	}

	games := svc.games.Upcoming(cmd.Context())
	game, ok := schedule.FindGame(games, ref)
	if !ok {
		return core.Game{}, fmt.Errorf("no scheduled game matches %q (found %d games; run 'courtside games' to list them)", ref, len(games))
	}
	if date != "" {
		game.Date = date
	}
	return game, nil
}
