package handlers

import (
	"courtside/internal/config"
	"courtside/internal/tui"

	"github.com/spf13/cobra"
)

// NewTUICmd creates the TUI command
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the Courtside Terminal User Interface",
		Long: `Launch the Courtside TUI to pick a game, browse prop cards, and build a slip.

The slip export is printed when you quit with legs on the slip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(config.Get())
			if err != nil {
				return err
			}

			return tui.Start(cmd.Context(), svc.games, svc.analyzer, cmd.OutOrStdout())
		},
	}
}
