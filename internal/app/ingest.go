package service

import (
	"context"
	"fmt"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/state"
	"github.com/okian/stationkpi/pkg/logger"
	"github.com/okian/stationkpi/pkg/metrics"
)

// SeenAndRecord reports whether event id was already accepted and records
// it otherwise.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSampleDuplicate()
	}
	return seen
}

// Unrecord forgets event id so it can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of remembered event ids.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

// Enqueue checks e against the current state and queues it for the workers.
// Unknown participants or metrics are rejected here rather than dropped
// later by a worker.
func (s *Service) Enqueue(ctx context.Context, e model.SampleEvent) error {
	if !s.Running() {
		return ErrNotStarted
	}
	if err := e.Validate(); err != nil {
		metrics.RecordSampleRejected("invalid")
		return classify(err)
	}
	p, err := s.store.Participant(ctx, e.ParticipantID)
	if err != nil {
		metrics.RecordSampleRejected("unknown_participant")
		return classify(err)
	}
	if _, ok := p.Metric(e.MetricID); !ok {
		metrics.RecordSampleRejected("unknown_metric")
		return classify(fmt.Errorf("%w: %s/%s", state.ErrUnknownMetric, e.ParticipantID, e.MetricID))
	}
	if err := s.queue.Enqueue(ctx, e); err != nil {
		metrics.RecordSampleRejected("backpressure")
		s.logger.Warn(ctx, "sample not queued",
			logger.String("event_id", e.EventID),
			logger.Error(err),
		)
		return classify(err)
	}
	metrics.RecordSampleAccepted()
	s.logger.Debug(ctx, "sample queued",
		logger.String("event_id", e.EventID),
		logger.String("participant_id", e.ParticipantID),
		logger.String("metric_id", e.MetricID),
		logger.Float64("value", e.Value),
	)
	return nil
}
