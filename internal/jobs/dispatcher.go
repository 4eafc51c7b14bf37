package jobs

import (
	"context"
	"log/slog"

	"bloghub/internal/featureflags"
	"bloghub/internal/models"
)

// Dispatcher enqueues jobs on behalf of request handling. Enqueue failures are
// logged and never returned to the caller.
type Dispatcher struct {
	queue  Queue
	flags  *featureflags.Manager
	logger *slog.Logger
}

// NewDispatcher returns a Dispatcher. flags may be nil, which enables every job.
func NewDispatcher(queue Queue, flags *featureflags.Manager, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{queue: queue, flags: flags, logger: logger}
}

// WelcomeEmail queues the welcome email for a newly registered user.
func (d *Dispatcher) WelcomeEmail(ctx context.Context, user *models.User) {
	if d == nil || d.queue == nil || user == nil {
		return
	}
	if d.flags != nil && !d.flags.Enabled(featureflags.WelcomeEmail, user.ID) {
		return
	}

	job, err := NewJob(TypeSendWelcomeEmail, WelcomeEmailPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err == nil {
		err = d.queue.Enqueue(ctx, job)
	}
	if err != nil {
		d.logger.ErrorContext(ctx, "welcome email dispatch failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
	}
}
