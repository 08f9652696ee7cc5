/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"fmt"
	"os"

	"courtside/internal/config"
	"courtside/internal/logger"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "courtside",
		Short: "NBA player-prop analysis grounded in live search",
		Long: `Courtside IQ - NBA player-prop analysis

Looks up today's and tomorrow's NBA schedule, asks Gemini with Google Search
grounding for a deep dive on a matchup, and turns the reply into prop cards
you can browse and collect on a bet slip.

Examples:
  # List upcoming games
  courtside games

  # Analyze a matchup, OVER props only
  courtside analyze --game "Lakers @ Nuggets" --filter over

  # Save a markdown report
  courtside analyze --away "Phoenix Suns" --home "Golden State Warriors" --format markdown --output reports

  # Price a slip from a saved JSON analysis
  courtside slip reports/phoenix-suns-golden-state-warriors.json --pick "Devin Booker:Points"

  # Serve the browser API
  courtside serve --port 3000

  # Interactive terminal UI
  courtside tui`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.courtside.yaml)")

	// Add subcommands
	rootCmd.AddCommand(NewGamesCmd())
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewSlipCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewTUICmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Load configuration using the centralized config module
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)

	// Show which config file is being used (if any)
	if cfg.App.ConfigFile != "" {
		logger.Debug("Using config file", "path", cfg.App.ConfigFile)
	}
	return nil
}
