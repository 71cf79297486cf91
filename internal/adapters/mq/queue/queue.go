// Package queue buffers accepted sample events between the HTTP layer and
// the ingest workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/pkg/metrics"
)

const defaultCapacity = 10000

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds e without blocking. It returns ErrFull or ErrClosed when
	// e was not accepted.
	Enqueue(ctx context.Context, e model.SampleEvent) error

	// Dequeue returns the channel consumers read from. It is closed by Close
	// once drained.
	Dequeue() <-chan model.SampleEvent

	// Len returns the number of waiting events.
	Len() int

	// Close stops accepting events.
	Close() error

	IsClosed() bool
}

// InMemoryQueue is a Queue backed by a buffered channel.
type InMemoryQueue struct {
	events   chan model.SampleEvent
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue builds a queue configured by opts.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan model.SampleEvent, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e model.SampleEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		return err
	}

	select {
	case q.events <- e:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.events))
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordError("queue", "full")
		return ErrFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue() <-chan model.SampleEvent {
	return q.events
}

// Len implements Queue.
func (q *InMemoryQueue) Len() int {
	n := len(q.events)
	metrics.UpdateQueueSize(n)
	return n
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close implements Queue. Buffered events stay readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.events)
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

var _ Queue = (*InMemoryQueue)(nil)
