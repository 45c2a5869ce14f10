// Package queue defines the contract for enqueuing and consuming profile
// build jobs.
//
// A single analysis session can request profiles for every entity in a
// league at once; the queue decouples those requests from the worker pool
// that computes them.
package queue

import (
	"context"
	"sync"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
	"github.com/okian/edgeline/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 1024
)

// BuildRequest asks for one profile. Records must already be filtered to the
// entity and window; the builder does not filter.
type BuildRequest struct {
	EntityID string
	Kind     types.Kind
	Window   model.Window
	Records  []model.EventRecord
}

// BuildResult is the outcome of one build, delivered on the job's result
// channel.
type BuildResult struct {
	Profile model.Profile
	Err     error
}

// BuildJob pairs a request with the channel its result is delivered on.
type BuildJob struct {
	Request BuildRequest
	Result  chan<- BuildResult
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job to the queue.
	// Returns false if the queue is full or closed and the job was not accepted.
	Enqueue(ctx context.Context, j BuildJob) bool

	// Dequeue returns a channel that receives jobs as they become available.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan BuildJob

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Close shuts the queue down; no new jobs are accepted afterwards.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan BuildJob
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan BuildJob, q.capacity)
	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j BuildJob) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueDepth(len(q.jobs))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		metrics.RecordQueueEnqueueError()
		return false // queue is full
	}
}

// Dequeue returns a channel that receives jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan BuildJob {
	out := make(chan BuildJob)
	go func() {
		defer close(out)
		for j := range q.jobs {
			select {
			case out <- j:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueDepth(len(q.jobs))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.jobs)
}

// Close shuts the queue down.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
