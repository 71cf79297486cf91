package service

import (
	"errors"
	"fmt"

	"github.com/okian/stationkpi/internal/adapters/mq/queue"
	"github.com/okian/stationkpi/internal/adapters/repository"
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/state"
	"github.com/okian/stationkpi/internal/domain/template"
)

// Error kinds callers branch on. The underlying cause stays wrapped.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrBackpressure = errors.New("backpressure")
)

// classify tags err with the kind matching its cause.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, state.ErrUnknownParticipant),
		errors.Is(err, state.ErrUnknownMetric),
		errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, state.ErrDuplicateParticipant):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, model.ErrInvalidMonth),
		errors.Is(err, model.ErrInvalidWindow),
		errors.Is(err, model.ErrInvalidEvent),
		errors.Is(err, state.ErrInvalidParticipant),
		errors.Is(err, template.ErrUnknownRole),
		errors.Is(err, template.ErrWeightSum):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, queue.ErrFull), errors.Is(err, queue.ErrClosed):
		return fmt.Errorf("%w: %w", ErrBackpressure, err)
	}
	return err
}
