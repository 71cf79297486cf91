// Package worker applies queued sample events to the state store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/state"
	"github.com/okian/stationkpi/pkg/logger"
	"github.com/okian/stationkpi/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Dispatcher applies a state action.
type Dispatcher interface {
	Dispatch(ctx context.Context, a state.Action) (state.State, error)
}

// Source is where workers read events from.
type Source interface {
	Dequeue() <-chan model.SampleEvent
}

// Pool runs a fixed number of workers over one Source.
type Pool struct {
	source     Source
	dispatcher Dispatcher
	size       int
	logger     logger.Logger
	onFailure  func(model.SampleEvent, error)

	wg        sync.WaitGroup
	started   atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64
}

// NewPool builds a pool. The worker count defaults to the number of CPUs.
func NewPool(source Source, dispatcher Dispatcher, opts ...Option) *Pool {
	p := &Pool{
		source:     source,
		dispatcher: dispatcher,
		size:       runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}
	return p
}

// Start launches the workers. Calling it twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	metrics.UpdateWorkerCount(p.size)
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", p.size))
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	events := p.source.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := p.process(ctx, e); err != nil {
				p.logger.Error(ctx, "sample not applied",
					logger.Int("worker", id),
					logger.String("event_id", e.EventID),
					logger.Error(err),
				)
			}
		}
	}
}

func (p *Pool) process(ctx context.Context, e model.SampleEvent) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	_, err := p.dispatcher.Dispatch(ctx, state.RecordSample{
		ParticipantID: e.ParticipantID,
		MetricID:      e.MetricID,
		Timestamp:     e.Timestamp,
		Value:         e.Value,
	})
	if err != nil {
		p.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordError("worker", "dispatch")
		if p.onFailure != nil {
			p.onFailure(e, err)
		}
		return fmt.Errorf("record sample %s: %w", e.EventID, err)
	}
	p.processed.Add(1)
	return nil
}

// Size returns the configured worker count.
func (p *Pool) Size() int { return p.size }

// Processed returns how many events were applied.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Failed returns how many events were rejected by the store.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Wait blocks until every worker has returned or ctx is done. Workers
// return once the source is closed and drained.
func (p *Pool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()
	select {
	case <-done:
		metrics.UpdateWorkerCount(0)
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
}
