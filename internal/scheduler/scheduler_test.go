package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/wonny/etfscan/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
}

func (j *stubJob) Name() string                  { return j.name }
func (j *stubJob) Schedule() string              { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error { return j.run(ctx) }

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewWriter(io.Discard))
	job := &stubJob{name: "scan", schedule: "0 * * * * *", run: func(context.Context) error { return nil }}

	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob() failed: %v", err)
	}
	if err := s.AddJob(job); err == nil {
		t.Error("AddJob() should reject a duplicate job name")
	}
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewWriter(io.Discard))
	job := &stubJob{name: "scan", schedule: "not a cron expr", run: func(context.Context) error { return nil }}

	if err := s.AddJob(job); err == nil {
		t.Error("AddJob() should reject an invalid schedule")
	}
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(logger.NewWriter(io.Discard))
	fail := &stubJob{name: "failing", schedule: "0 * * * * *",
		run: func(context.Context) error { return errors.New("boom") }}
	if err := s.AddJob(fail); err != nil {
		t.Fatalf("AddJob() failed: %v", err)
	}

	s.runJob(fail)
	s.runJob(fail)

	h, ok := s.History("failing")
	if !ok {
		t.Fatal("History() missing for job")
	}
	if h.RunCount != 2 || h.FailCount != 2 {
		t.Errorf("History() = %+v, want 2 runs and 2 failures", h)
	}
	if h.LastError == nil {
		t.Error("History() LastError should be set")
	}
}

func TestRunJobRecoversPanic(t *testing.T) {
	s := New(logger.NewWriter(io.Discard))
	panicking := &stubJob{name: "panicking", schedule: "0 * * * * *",
		run: func(context.Context) error { panic("kaboom") }}
	if err := s.AddJob(panicking); err != nil {
		t.Fatalf("AddJob() failed: %v", err)
	}

	s.runJob(panicking) // must not crash the test

	h, _ := s.History("panicking")
	if h.FailCount != 1 {
		t.Errorf("History() FailCount = %d, want 1", h.FailCount)
	}
}
