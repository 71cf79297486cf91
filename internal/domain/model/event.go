package model

import (
	"fmt"
	"strings"
	"time"
)

// SampleEvent is an idempotent request to record one metric value. EventID is
// chosen by the producer and identifies retries of the same submission.
type SampleEvent struct {
	EventID       string    `json:"event_id"`
	ParticipantID string    `json:"participant_id"`
	MetricID      string    `json:"metric_id"`
	Timestamp     time.Time `json:"ts"`
	Value         float64   `json:"value"`
}

// Validate reports the first missing field of e.
func (e SampleEvent) Validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	case strings.TrimSpace(e.ParticipantID) == "":
		return fmt.Errorf("%w: participant_id is required", ErrInvalidEvent)
	case strings.TrimSpace(e.MetricID) == "":
		return fmt.Errorf("%w: metric_id is required", ErrInvalidEvent)
	case e.Timestamp.IsZero():
		return fmt.Errorf("%w: ts is required", ErrInvalidEvent)
	}
	return nil
}
