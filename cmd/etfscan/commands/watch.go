package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/etfscan/internal/pipeline"
	"github.com/wonny/etfscan/internal/scheduler"
	"github.com/wonny/etfscan/pkg/logger"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scans on a cron schedule",
	Long: `Starts a long-running process that executes the scan pipeline on a
cron schedule (seconds field included). The default schedule runs every
10 minutes during mainland trading hours on weekdays.

Example:
  go run ./cmd/etfscan watch
  go run ./cmd/etfscan watch --schedule="0 */5 9-15 * * 1-5"`,
	RunE: runWatch,
}

var watchSchedule string

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "0 */10 9-15 * * 1-5",
		"cron schedule with seconds field")
}

// scanJob adapts the pipeline to the scheduler's Job interface.
type scanJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

func (j *scanJob) Name() string     { return "discount-scan" }
func (j *scanJob) Schedule() string { return j.schedule }

func (j *scanJob) Run(ctx context.Context) error {
	outcome, err := j.pipeline.Run(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"readings": outcome.Summary.Readings,
		"alerts":   outcome.Alerts,
		"tracked":  outcome.Tracked,
	}).Info("Scheduled scan finished")
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	sched := scheduler.New(log)
	job := &scanJob{
		pipeline: buildPipeline(cfg, log),
		schedule: watchSchedule,
		logger:   log.WithField("module", "watch"),
	}
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	// Block until interrupted.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.WithField("signal", sig.String()).Info("Shutting down")
	return nil
}
