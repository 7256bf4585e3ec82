package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	thresholdsFile string
	verbose        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Equity opportunity screener and backtest simulator",
	Long: `Daily screener for equity opportunity strategies.

Scans the snapshot universe for dividend yield expansion, volatility
dip-buy, 52-week-low value and golden-cross setups, with a replay
simulator to measure how past signals performed.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener screen
  go run ./cmd/screener screen --date 2026-08-28
  go run ./cmd/screener backtest --months-back 6
  go run ./cmd/screener serve
  go run ./cmd/screener scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&thresholdsFile, "thresholds", "", "strategy thresholds YAML (default from SCREENING_THRESHOLDS)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
