package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "swingrank",
	Short: "Swingrank - daily swing-trade stock ranking",
	Long: `Swingrank CLI

Scores watchlists of US stocks on relative strength, trend quality,
pullback depth and volatility, then ranks them for swing-trade review.

Usage:
  go run ./cmd/swingrank [command]

Examples:
  go run ./cmd/swingrank api
  go run ./cmd/swingrank scan --list leading_stocks
  go run ./cmd/swingrank scheduler start
  go run ./cmd/swingrank lists show leading_stocks`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
