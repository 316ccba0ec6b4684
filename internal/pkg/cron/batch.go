package cron

import (
	"context"
	"log/slog"
	"time"
)

// InterruptedJobReaper is the part of the batch service the reaper needs.
type InterruptedJobReaper interface {
	FailInterruptedJobs(ctx context.Context) (int, error)
}

const FailInterruptedBatchJobsName = "fail_interrupted_batch_jobs"

// RegisterBatchJobs adds the batch maintenance jobs to the scheduler.
func RegisterBatchJobs(s *Scheduler, reaper InterruptedJobReaper, interval time.Duration) {
	s.AddJob(FailInterruptedBatchJobsName, interval, func(ctx context.Context) error {
		n, err := reaper.FailInterruptedJobs(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			slog.Info("Marked interrupted batch jobs as failed", "count", n)
		}
		return nil
	})
}
