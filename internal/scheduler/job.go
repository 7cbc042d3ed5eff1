package scheduler

import (
	"context"
	"time"
)

// Job is a unit of scheduled work.
type Job interface {
	// Name identifies the job in logs.
	Name() string
	// Schedule is a cron expression with a seconds field.
	Schedule() string
	// Run executes the job once.
	Run(ctx context.Context) error
}

// JobHistory tracks the most recent execution of a job.
type JobHistory struct {
	LastRun   time.Time
	LastError error
	RunCount  int
	FailCount int
}
