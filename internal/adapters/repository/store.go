// Package repository holds the dashboard state and serializes every
// transition through the pure reducer.
package repository

import (
	"context"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/state"
)

// Store provides read and write access to the dashboard state.
type Store interface {
	// State returns the current state value. Callers must treat it as
	// read-only.
	State(ctx context.Context) state.State

	// Dispatch applies a to the current state and returns the next one.
	// A failed action leaves the state unchanged.
	Dispatch(ctx context.Context, a state.Action) (state.State, error)

	// Participant returns the working copy of participant id.
	// Returns ErrNotFound if the participant is unknown.
	Participant(ctx context.Context, id string) (model.Participant, error)

	// Count returns the number of participants.
	Count(ctx context.Context) int
}
