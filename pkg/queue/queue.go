package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/certsend/certsend/pkg/id"
)

const defaultBuffer = 64

// Job is one unit of background work. Run receives the worker's context
// and should respect its cancellation.
type Job struct {
	Run  func(ctx context.Context) error
	ID   string
	Name string
}

// Queue is a single-worker in-memory job queue. Construct with New; the
// zero value is not usable.
type Queue struct {
	jobs    chan Job
	log     *slog.Logger
	delay   time.Duration
	running atomic.Bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger attaches a structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(q *Queue) {
		if log != nil {
			q.log = log
		}
	}
}

// WithBuffer sets the submission buffer capacity.
func WithBuffer(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.jobs = make(chan Job, n)
		}
	}
}

// WithInterJobDelay inserts a pause between consecutive jobs.
func WithInterJobDelay(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.delay = d
		}
	}
}

// New creates a Queue. Start must be called before enqueued jobs run.
func New(opts ...Option) *Queue {
	q := &Queue{
		jobs: make(chan Job, defaultBuffer),
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue accepts a job and returns its ID without waiting for execution.
// A full buffer fails fast with ErrQueueFull rather than blocking the
// caller.
func (q *Queue) Enqueue(job Job) (string, error) {
	if job.Run == nil {
		return "", ErrNilJob
	}
	if job.ID == "" {
		job.ID = id.NewShortID()
	}

	select {
	case q.jobs <- job:
		q.log.Info("job queued",
			slog.String("job_id", job.ID),
			slog.String("job_name", job.Name),
			slog.Int("backlog", len(q.jobs)),
		)
		return job.ID, nil
	default:
		return "", fmt.Errorf("%w: %d jobs pending", ErrQueueFull, len(q.jobs))
	}
}

// Start runs the worker loop until ctx is cancelled. It returns
// ctx.Err() on shutdown, which fits an errgroup-managed lifecycle.
func (q *Queue) Start(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer q.running.Store(false)

	q.log.InfoContext(ctx, "queue worker started", slog.Int("buffer", cap(q.jobs)))
	for {
		select {
		case <-ctx.Done():
			q.log.InfoContext(ctx, "queue worker stopped", slog.Int("abandoned", len(q.jobs)))
			return ctx.Err()
		case job := <-q.jobs:
			q.runJob(ctx, job)
			if q.delay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(q.delay):
				}
			}
		}
	}
}

// runJob executes one job, converting a panic into a logged failure so a
// bad job cannot take the worker down.
func (q *Queue) runJob(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			q.log.ErrorContext(ctx, "job panicked",
				slog.String("job_id", job.ID),
				slog.String("job_name", job.Name),
				slog.Any("panic", r),
			)
		}
	}()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		q.log.ErrorContext(ctx, "job failed",
			slog.String("job_id", job.ID),
			slog.String("job_name", job.Name),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return
	}
	q.log.InfoContext(ctx, "job finished",
		slog.String("job_id", job.ID),
		slog.String("job_name", job.Name),
		slog.Duration("elapsed", time.Since(start)),
	)
}

// Len reports the number of jobs waiting in the buffer.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Healthcheck reports whether the worker loop is running. Shaped to plug
// into a readiness endpoint.
func (q *Queue) Healthcheck(_ context.Context) error {
	if !q.running.Load() {
		return ErrNotStarted
	}
	return nil
}
