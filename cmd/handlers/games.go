package handlers

import (
	"encoding/json"
	"fmt"

	"courtside/internal/config"
	"courtside/internal/render"

	"github.com/spf13/cobra"
)

// NewGamesCmd creates the games command
func NewGamesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List NBA games scheduled today and tomorrow",
		Long: `Search for the official NBA schedule for today and tomorrow (Eastern time).

If the lookup fails or the reply cannot be read, an empty schedule is shown
rather than an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(config.Get())
			if err != nil {
				return err
			}

			games := svc.games.Upcoming(cmd.Context())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(games)
			}

			fmt.Fprint(cmd.OutOrStdout(), render.Games(games))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the schedule as JSON")

	return cmd
}
