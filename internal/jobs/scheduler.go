package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler enqueues a job of one type immediately and then on every interval tick.
type Scheduler struct {
	queue    Queue
	jobType  string
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler returns a Scheduler for jobType.
func NewScheduler(queue Queue, jobType string, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{queue: queue, jobType: jobType, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.enqueue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueue(ctx)
		}
	}
}

func (s *Scheduler) enqueue(ctx context.Context) {
	job, err := NewJob(s.jobType, nil)
	if err == nil {
		err = s.queue.Enqueue(ctx, job)
	}
	if err != nil && ctx.Err() == nil {
		s.logger.Error("scheduled job enqueue failed",
			slog.String("type", s.jobType),
			slog.String("error", err.Error()),
		)
	}
}
