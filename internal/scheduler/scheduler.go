// Package scheduler runs recurring jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/etfscan/pkg/logger"
)

// Scheduler manages scheduled jobs.
// SSOT: recurring execution is managed here only.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	history map[string]*JobHistory
	mu      sync.RWMutex
}

// New creates a new scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		logger:  log.WithField("module", "scheduler"),
		jobs:    make(map[string]Job),
		history: make(map[string]*JobHistory),
	}
}

// AddJob adds a job to the scheduler.
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobName := job.Name()
	if _, exists := s.jobs[jobName]; exists {
		return fmt.Errorf("job %s already exists", jobName)
	}

	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", jobName, err)
	}

	s.jobs[jobName] = job
	s.history[jobName] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// Start begins executing scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// History returns a copy of the execution history for a job.
func (s *Scheduler) History(jobName string) (JobHistory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.history[jobName]
	if !ok {
		return JobHistory{}, false
	}
	return *h, true
}

// runJob executes a job with panic recovery and history tracking.
func (s *Scheduler) runJob(job Job) {
	jobName := job.Name()
	log := s.logger.WithField("job", jobName)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Job panicked: %v", r)
			s.record(jobName, fmt.Errorf("panic: %v", r))
		}
	}()

	log.Info("Job starting")
	start := time.Now()

	err := job.Run(context.Background())
	duration := time.Since(start)

	if err != nil {
		log.WithError(err).WithField("duration", duration).Error("Job failed")
	} else {
		log.WithField("duration", duration).Info("Job completed")
	}
	s.record(jobName, err)
}

// record updates a job's history after one execution.
func (s *Scheduler) record(jobName string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.history[jobName]
	if h == nil {
		return
	}
	h.LastRun = time.Now()
	h.LastError = err
	h.RunCount++
	if err != nil {
		h.FailCount++
	}
}
