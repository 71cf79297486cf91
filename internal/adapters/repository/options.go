package repository

import "github.com/okian/stationkpi/internal/domain/state"

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithInitialState seeds the store.
func WithInitialState(s state.State) Option {
	return func(m *MemoryStore) {
		m.initial = s
	}
}

// WithObserver registers fn to run after every successful dispatch with the
// action and the resulting state. Observers run in dispatch order while the
// write lock is held and must not dispatch themselves.
func WithObserver(fn func(a state.Action, next state.State)) Option {
	return func(m *MemoryStore) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}
