package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/state"
	"github.com/okian/stationkpi/pkg/metrics"
)

// MemoryStore keeps the state in memory. Writers are serialized by a mutex;
// readers load the last published value without locking.
type MemoryStore struct {
	mu        sync.Mutex
	current   atomic.Pointer[state.State]
	initial   state.State
	observers []func(state.Action, state.State)
	closed    atomic.Bool
}

// NewMemoryStore builds a store. Without WithInitialState it starts empty
// on the monthly window.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{initial: state.New(nil, "", model.Monthly)}
	for _, opt := range opts {
		opt(s)
	}
	initial := s.initial
	s.current.Store(&initial)
	metrics.UpdateParticipants(len(initial.Participants))
	return s
}

// State implements Store.
func (s *MemoryStore) State(_ context.Context) state.State {
	return *s.current.Load()
}

// Dispatch implements Store.
func (s *MemoryStore) Dispatch(ctx context.Context, a state.Action) (state.State, error) {
	if s.closed.Load() {
		return s.State(ctx), ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return s.State(ctx), err
	}

	start := time.Now()
	s.mu.Lock()
	next, err := state.Reduce(*s.current.Load(), a)
	if err == nil {
		s.current.Store(&next)
		for _, fn := range s.observers {
			fn(a, next)
		}
	}
	s.mu.Unlock()

	metrics.RecordDispatch(a.Name(), float64(time.Since(start).Microseconds())/1000, err)
	if err != nil {
		return next, fmt.Errorf("dispatch %s: %w", a.Name(), err)
	}
	metrics.UpdateParticipants(len(next.Participants))
	return next, nil
}

// Participant implements Store.
func (s *MemoryStore) Participant(ctx context.Context, id string) (model.Participant, error) {
	p, ok := s.State(ctx).Participant(id)
	if !ok {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) int {
	return len(s.State(ctx).Participants)
}

// Close rejects further dispatches. Reads keep working.
func (s *MemoryStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
