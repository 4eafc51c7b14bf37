package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"bloghub/internal/observability"

	"go.opentelemetry.io/otel/codes"
)

// Handler processes one job. Errors are logged and counted; jobs are never retried.
type Handler func(ctx context.Context, job Job) error

// Worker pulls jobs off a Queue and dispatches them by type.
type Worker struct {
	queue    Queue
	logger   *slog.Logger
	mu       sync.RWMutex
	handlers map[string]Handler
	backoff  time.Duration
}

// NewWorker returns a Worker reading from queue.
func NewWorker(queue Queue, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		queue:    queue,
		logger:   logger,
		handlers: make(map[string]Handler),
		backoff:  time.Second,
	}
}

// Register binds h to jobType, replacing any earlier handler.
func (w *Worker) Register(jobType string, h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[jobType] = h
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("job worker started")
	defer w.logger.Info("job worker stopped")

	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("job dequeue failed", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.backoff):
			}
			continue
		}
		w.Process(ctx, job)
	}
}

// Process runs the handler for job, recovering from panics.
func (w *Worker) Process(ctx context.Context, job Job) {
	w.mu.RLock()
	h, ok := w.handlers[job.Type]
	w.mu.RUnlock()

	if !ok {
		observability.JobsProcessed.WithLabelValues(job.Type, "unknown").Inc()
		w.logger.WarnContext(ctx, "no handler for job", slog.String("type", job.Type))
		return
	}

	ctx, span := observability.StartJobSpan(ctx, job.Type)
	defer span.End()

	err := w.safeRun(ctx, h, job)
	if err != nil {
		observability.JobsProcessed.WithLabelValues(job.Type, "failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.logger.ErrorContext(ctx, "job failed",
			slog.String("type", job.Type),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.JobsProcessed.WithLabelValues(job.Type, "succeeded").Inc()
}

var errPanicked = errors.New("job panicked")

func (w *Worker) safeRun(ctx context.Context, h Handler, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.ErrorContext(ctx, "PANIC in job handler",
				slog.String("type", job.Type),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("%w: %v", errPanicked, r)
		}
	}()
	return h(ctx, job)
}
