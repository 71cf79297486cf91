package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/stationkpi/internal/domain/dedupe"
	"github.com/okian/stationkpi/internal/domain/model"
)

// SampleDependencies is what POST /samples needs.
type SampleDependencies interface {
	dedupe.Deduper
	// Enqueue queues e for the workers. It fails with a backpressure kind
	// when the queue is full.
	Enqueue(ctx context.Context, e model.SampleEvent) error
}

// sampleRequest is the body of POST /samples.
type sampleRequest struct {
	EventID       string   `json:"event_id"`
	ParticipantID string   `json:"participant_id"`
	MetricID      string   `json:"metric_id"`
	TS            string   `json:"ts"`
	Value         *float64 `json:"value"`
}

func (s sampleRequest) event() (model.SampleEvent, error) {
	switch {
	case strings.TrimSpace(s.EventID) == "":
		return model.SampleEvent{}, errors.New("missing event_id")
	case strings.TrimSpace(s.ParticipantID) == "":
		return model.SampleEvent{}, errors.New("missing participant_id")
	case strings.TrimSpace(s.MetricID) == "":
		return model.SampleEvent{}, errors.New("missing metric_id")
	case strings.TrimSpace(s.TS) == "":
		return model.SampleEvent{}, errors.New("missing ts")
	case s.Value == nil:
		return model.SampleEvent{}, errors.New("missing value")
	}
	ts, err := time.Parse(time.RFC3339, s.TS)
	if err != nil {
		return model.SampleEvent{}, errors.New("invalid ts; must be RFC3339")
	}
	return model.SampleEvent{
		EventID:       s.EventID,
		ParticipantID: s.ParticipantID,
		MetricID:      s.MetricID,
		Timestamp:     ts,
		Value:         *s.Value,
	}, nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// SamplesHandler accepts metric samples.
type SamplesHandler struct {
	deps SampleDependencies
}

// NewSamplesHandler creates a new samples handler.
func NewSamplesHandler(deps SampleDependencies) *SamplesHandler {
	return &SamplesHandler{deps: deps}
}

// HandlePostSample handles POST /samples. A repeated event_id is
// acknowledged as a duplicate without being applied twice.
func (h *SamplesHandler) HandlePostSample(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_sample"
	var req sampleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	e, err := req.event()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if h.deps.SeenAndRecord(r.Context(), e.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	if err := h.deps.Enqueue(r.Context(), e); err != nil {
		h.deps.Unrecord(r.Context(), e.EventID)
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
