// Package worker defines the pool that computes profiles concurrently.
//
// Workers pull build jobs off the queue and run them through the memoizing
// builder; each job's result goes back on its own channel, so a caller that
// fans out a league's worth of builds can join on exactly the jobs it
// submitted. Jobs are independent units of work with no ordering dependency.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/edgeline/internal/adapters/mq/queue"
	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
	"github.com/okian/edgeline/pkg/logger"
	"github.com/okian/edgeline/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Builder computes one profile. Implemented by the repository memoizer.
type Builder interface {
	Build(ctx context.Context, entityID string, kind types.Kind, records []model.EventRecord, window model.Window) (model.Profile, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.BuildJob
}

// Worker processes build jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// BuildWorker implements Worker.
type BuildWorker struct {
	queue   Queue
	builder Builder
	name    string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewBuildWorker creates a new worker with configuration options.
func NewBuildWorker(q Queue, builder Builder, opts ...Option) *BuildWorker {
	w := &BuildWorker{
		queue:    q,
		builder:  builder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *BuildWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.processJob(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *BuildWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one build and delivers the result. The result channel is
// never closed here; it belongs to the submitter.
func (w *BuildWorker) processJob(ctx context.Context, job queue.BuildJob) {
	start := time.Now()
	req := job.Request

	p, err := w.builder.Build(ctx, req.EntityID, req.Kind, req.Records, req.Window)
	metrics.ObserveProfileBuildSeconds(time.Since(start).Seconds())

	if err != nil {
		metrics.RecordProfileBuildError()
		w.logger.Error(ctx, "profile build failed",
			logger.String("entityID", req.EntityID),
			logger.String("kind", string(req.Kind)),
			logger.Error(err),
		)
	} else {
		metrics.RecordProfileBuild()
	}

	if job.Result == nil {
		return
	}
	select {
	case job.Result <- queue.BuildResult{Profile: p, Err: err}:
	case <-ctx.Done():
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*BuildWorker
	queue   Queue
	builder Builder

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, builder Builder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*BuildWorker, workerCount),
		queue:    q,
		builder:  builder,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewBuildWorker(
			q,
			builder,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for all workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
