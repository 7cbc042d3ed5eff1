// Package report renders the per-run CSV artifacts: full snapshot,
// discount alerts and the profit tracker.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/wonny/etfscan/internal/ledger"
	"github.com/wonny/etfscan/internal/scan"
	"github.com/wonny/etfscan/pkg/config"
	"github.com/wonny/etfscan/pkg/logger"
)

// timestampLayout renders the run timestamp column.
const timestampLayout = "2006-01-02 15:04:05"

// Generator writes the three report files into the data directory,
// each as a whole-file overwrite per run.
type Generator struct {
	paths  config.PathsConfig
	logger *logger.Logger
}

// NewGenerator creates a Generator for the configured paths.
func NewGenerator(paths config.PathsConfig, log *logger.Logger) *Generator {
	return &Generator{
		paths:  paths,
		logger: log.WithField("module", "report"),
	}
}

// WriteSnapshot writes one row per reading, in collection order.
func (g *Generator) WriteSnapshot(readings []scan.Reading, now time.Time) error {
	ts := now.Format(timestampLayout)

	rows := [][]string{
		{"code", "name", "price", "nav", "premium_pct", "change_pct", "volume_wan", "updated_at"},
	}
	for _, rd := range readings {
		rows = append(rows, []string{
			rd.Code,
			rd.Name,
			formatFloat(rd.Price, 3),
			formatFloat(rd.NAV, 4),
			formatFloat(rd.PremiumPct, 2),
			formatFloat(rd.ChangePct, 2),
			formatFloat(rd.Volume, 2),
			ts,
		})
	}

	return g.writeCSV(g.paths.SnapshotFile, rows)
}

// WriteAlerts writes the readings that qualify under rule, deepest
// discount first. Returns the number of alert rows.
func (g *Generator) WriteAlerts(readings []scan.Reading, rule scan.Rule, now time.Time) (int, error) {
	ts := now.Format(timestampLayout)

	alerts := make([]scan.Reading, 0)
	for _, rd := range readings {
		if rule.Qualifies(rd) {
			alerts = append(alerts, rd)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].PremiumPct < alerts[j].PremiumPct
	})

	rows := [][]string{
		{"code", "name", "price", "premium_pct", "volume_wan", "change_pct", "updated_at"},
	}
	for _, rd := range alerts {
		rows = append(rows, []string{
			rd.Code,
			rd.Name,
			formatFloat(rd.Price, 3),
			formatFloat(rd.PremiumPct, 2),
			formatFloat(rd.Volume, 2),
			formatFloat(rd.ChangePct, 2),
			ts,
		})
	}

	if err := g.writeCSV(g.paths.AlertFile, rows); err != nil {
		return 0, err
	}
	return len(alerts), nil
}

// WriteProfits joins the ledger against the current readings by code and
// writes the running profit per tracked position. Entries without a
// current reading are omitted from the table but stay in the ledger.
// Returns the number of rows written.
func (g *Generator) WriteProfits(readings []scan.Reading, led ledger.Ledger, now time.Time) (int, error) {
	ts := now.Format(timestampLayout)

	byCode := make(map[string]scan.Reading, len(readings))
	for _, rd := range readings {
		byCode[rd.Code] = rd
	}

	rows := [][]string{
		{"code", "name", "buy_date", "buy_price", "price", "profit_pct", "premium_pct", "updated_at"},
	}
	written := 0
	for _, code := range led.Codes() {
		current, ok := byCode[code]
		if !ok {
			continue // instrument not fetchable this run
		}
		entry := led[code]
		profit := (current.Price - entry.BuyPrice) / entry.BuyPrice * 100

		rows = append(rows, []string{
			code,
			entry.Name,
			entry.BuyDate,
			formatFloat(entry.BuyPrice, 3),
			formatFloat(current.Price, 3),
			formatFloat(profit, 2),
			formatFloat(current.PremiumPct, 2),
			ts,
		})
		written++
	}

	if err := g.writeCSV(g.paths.ProfitFile, rows); err != nil {
		return 0, err
	}
	return written, nil
}

// writeCSV renders rows as UTF-8 CSV with a BOM so spreadsheet tools
// pick up the character set, then replaces the target atomically.
func (g *Generator) writeCSV(name string, rows [][]string) error {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	if err := os.MkdirAll(g.paths.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(g.paths.DataDir, name)
	tmp, err := os.CreateTemp(g.paths.DataDir, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}

	g.logger.WithFields(map[string]interface{}{
		"file": name,
		"rows": len(rows) - 1,
	}).Debug("Report written")
	return nil
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
