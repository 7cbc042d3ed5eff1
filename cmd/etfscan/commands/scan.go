package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/etfscan/internal/external/eastmoney"
	"github.com/wonny/etfscan/internal/external/fundgz"
	"github.com/wonny/etfscan/internal/ledger"
	"github.com/wonny/etfscan/internal/pipeline"
	"github.com/wonny/etfscan/internal/report"
	"github.com/wonny/etfscan/internal/scan"
	"github.com/wonny/etfscan/pkg/config"
	"github.com/wonny/etfscan/pkg/httputil"
	"github.com/wonny/etfscan/pkg/logger"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one full discount scan",
	Long: `Fetches a live quote and an estimated NAV for every code in the
code list, updates the position ledger and writes the three report
files (full snapshot, discount alerts, profit tracker).

Example:
  go run ./cmd/etfscan scan
  go run ./cmd/etfscan scan --codes=my_etf.txt --threshold=-2.0
  go run ./cmd/etfscan scan --min-volume=0`,
	RunE: runScan,
}

var (
	// Scan flags; only applied when set, config defaults otherwise.
	scanCodesFile   string
	scanDataDir     string
	scanThreshold   float64
	scanMinVolume   float64
	scanConcurrency int
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanCodesFile, "codes", "", "code list file (overrides CODES_FILE)")
	scanCmd.Flags().StringVar(&scanDataDir, "data-dir", "", "output directory (overrides DATA_DIR)")
	scanCmd.Flags().Float64Var(&scanThreshold, "threshold", 0, "discount cutoff in percent, e.g. -1.3")
	scanCmd.Flags().Float64Var(&scanMinVolume, "min-volume", 0, "liquidity floor in 万元, 0 disables it")
	scanCmd.Flags().IntVar(&scanConcurrency, "concurrency", 0, "codes fetched per batch")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	p := buildPipeline(cfg, log)

	outcome, err := p.Run(context.Background())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: code list file %s not found\n", cfg.Paths.CodesFile)
		}
		return err
	}

	printOutcome(outcome)
	return nil
}

// setup loads config, applies flag overrides and builds the logger.
// Shared by scan and watch.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if cmd.Flags().Changed("codes") {
		cfg.Paths.CodesFile = scanCodesFile
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Paths.DataDir = scanDataDir
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Scan.PremiumThreshold = scanThreshold
	}
	if cmd.Flags().Changed("min-volume") {
		cfg.Scan.MinVolume = scanMinVolume
	}
	if cmd.Flags().Changed("concurrency") && scanConcurrency > 0 {
		cfg.Scan.Concurrency = scanConcurrency
	}

	return cfg, logger.New(cfg), nil
}

// buildPipeline wires the run components from config.
func buildPipeline(cfg *config.Config, log *logger.Logger) *pipeline.Pipeline {
	httpClient := httputil.New(cfg, log)
	quotes := eastmoney.NewClient(httpClient, log)
	navs := fundgz.NewClient(httpClient, log)

	scanner := scan.NewScanner(quotes, navs, cfg.Scan.Concurrency, log).
		WithProgress(func(done, total int) {
			fmt.Printf("progress: %d/%d\n", done, total)
		})
	store := ledger.NewStore(cfg.Paths.LedgerPath(), log)
	reports := report.NewGenerator(cfg.Paths, log)

	return pipeline.New(cfg, scanner, store, reports, log)
}

// printOutcome renders the human summary after a run.
func printOutcome(o *pipeline.Outcome) {
	PrintSeparator()
	fmt.Printf("valid readings:   %d/%d\n", o.Summary.Readings, o.CodesTotal)
	if o.CodesIgnored > 0 {
		fmt.Printf("ignored lines:    %d\n", o.CodesIgnored)
	}
	for reason, count := range o.Summary.Skipped {
		fmt.Printf("skipped (%s): %d\n", reason, count)
	}
	fmt.Printf("discount alerts:  %d\n", o.Alerts)
	if len(o.NewPositions) > 0 {
		fmt.Printf("new positions:    %s\n", strings.Join(o.NewPositions, ", "))
	}
	fmt.Printf("tracked:          %d (%d with current prices)\n", o.Tracked, o.ProfitRows)
	PrintSeparator()
}
