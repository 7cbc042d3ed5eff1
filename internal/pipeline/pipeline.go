// Package pipeline wires one full scan run: code list, batched fetch,
// ledger reconciliation and report generation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/etfscan/internal/codes"
	"github.com/wonny/etfscan/internal/ledger"
	"github.com/wonny/etfscan/internal/report"
	"github.com/wonny/etfscan/internal/scan"
	"github.com/wonny/etfscan/pkg/config"
	"github.com/wonny/etfscan/pkg/logger"
)

// Pipeline is the run orchestrator. All tuning comes in through the
// config struct; nothing here reads the environment.
type Pipeline struct {
	cfg     *config.Config
	scanner *scan.Scanner
	store   *ledger.Store
	reports *report.Generator
	logger  *logger.Logger
}

// New creates a Pipeline from already-wired components.
func New(cfg *config.Config, scanner *scan.Scanner, store *ledger.Store,
	reports *report.Generator, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		scanner: scanner,
		store:   store,
		reports: reports,
		logger:  log.WithField("module", "pipeline"),
	}
}

// Outcome summarizes one run for the caller and the final log line.
type Outcome struct {
	CodesTotal   int
	CodesIgnored int
	Summary      scan.Summary
	Alerts       int
	NewPositions []string
	Tracked      int
	ProfitRows   int
}

// Run executes one full scan. The only fatal pre-fetch error is a
// missing code list; ledger or report write failures end the run after
// fetching. Everything per-code degrades into skip counts.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	list, err := codes.Read(p.cfg.Paths.CodesFile)
	if err != nil {
		return nil, err
	}

	rule := scan.Rule{
		Threshold: p.cfg.Scan.PremiumThreshold,
		MinVolume: p.cfg.Scan.MinVolume,
	}

	p.logger.WithFields(map[string]interface{}{
		"codes":      len(list.Codes),
		"ignored":    list.Ignored,
		"threshold":  rule.Threshold,
		"min_volume": rule.MinVolume,
	}).Info("Scan starting")

	readings, summary := p.scanner.Scan(ctx, list.Codes)

	now := time.Now()
	led := p.store.Load()
	added := ledger.Reconcile(led, readings, rule, now.Format("2006-01-02"))
	for _, code := range added {
		p.logger.WithField("code", code).Info("New discount position recorded")
	}
	if err := p.store.Save(led); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	if err := p.reports.WriteSnapshot(readings, now); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	alerts, err := p.reports.WriteAlerts(readings, rule, now)
	if err != nil {
		return nil, fmt.Errorf("write alerts: %w", err)
	}
	profitRows, err := p.reports.WriteProfits(readings, led, now)
	if err != nil {
		return nil, fmt.Errorf("write profits: %w", err)
	}

	outcome := &Outcome{
		CodesTotal:   len(list.Codes),
		CodesIgnored: list.Ignored,
		Summary:      summary,
		Alerts:       alerts,
		NewPositions: added,
		Tracked:      len(led),
		ProfitRows:   profitRows,
	}

	p.logger.WithFields(map[string]interface{}{
		"readings":      summary.Readings,
		"alerts":        alerts,
		"new_positions": len(added),
		"tracked":       outcome.Tracked,
	}).Info("Scan completed")

	return outcome, nil
}
