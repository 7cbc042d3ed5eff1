package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/etfscan/internal/codes"
)

// codesCmd represents the codes command
var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Validate the code list without fetching",
	Long: `Reads the configured code list and reports how many lines are
valid 6-digit codes and how many were ignored. Useful as a preflight
before pointing the scanner at a freshly edited list.

Example:
  go run ./cmd/etfscan codes
  go run ./cmd/etfscan codes --codes=my_etf.txt`,
	RunE: runCodes,
}

func init() {
	rootCmd.AddCommand(codesCmd)

	codesCmd.Flags().StringVar(&scanCodesFile, "codes", "", "code list file (overrides CODES_FILE)")
}

func runCodes(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	list, err := codes.Read(cfg.Paths.CodesFile)
	if err != nil {
		return err
	}

	PrintSeparator()
	fmt.Printf("code list:     %s\n", cfg.Paths.CodesFile)
	fmt.Printf("valid codes:   %d\n", len(list.Codes))
	fmt.Printf("ignored lines: %d\n", list.Ignored)
	PrintSeparator()
	return nil
}
