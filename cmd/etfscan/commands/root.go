package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "etfscan",
	Short: "ETF premium/discount scanner",
	Long: `etfscan - ETF discount arbitrage screener

Scans a list of fund codes, compares each fund's live market price with
its estimated net asset value and keeps an append-only ledger of funds
that crossed the discount threshold.

Usage:
  go run ./cmd/etfscan [command]

Examples:
  go run ./cmd/etfscan scan
  go run ./cmd/etfscan scan --threshold=-2.0 --min-volume=0
  go run ./cmd/etfscan watch
  go run ./cmd/etfscan codes`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
