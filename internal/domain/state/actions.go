package state

import (
	"fmt"
	"time"

	"github.com/okian/stationkpi/internal/domain/history"
	"github.com/okian/stationkpi/internal/domain/model"
)

// Action is a state transition understood by Reduce.
type Action interface {
	// Name identifies the action in logs and metrics.
	Name() string
}

// SelectMonth changes the active month and re-syncs the selected
// participant.
type SelectMonth struct {
	Month model.Month
}

// SelectParticipant selects a participant and syncs it to the active month.
type SelectParticipant struct {
	ID string
}

// SetWindow changes the reporting window.
type SetWindow struct {
	Window model.Window
}

// RecordSample records a metric value, overwriting the sample for the same
// month if one exists.
type RecordSample struct {
	ParticipantID string
	MetricID      string
	Timestamp     time.Time
	Value         float64
}

// AddParticipant appends a new participant and captures its baseline.
type AddParticipant struct {
	Participant model.Participant
}

// ResetBaseline re-captures the baseline from the current history of
// every participant.
type ResetBaseline struct{}

func (SelectMonth) Name() string       { return "select_month" }
func (SelectParticipant) Name() string { return "select_participant" }
func (SetWindow) Name() string         { return "set_window" }
func (RecordSample) Name() string      { return "record_sample" }
func (AddParticipant) Name() string    { return "add_participant" }
func (ResetBaseline) Name() string     { return "reset_baseline" }

// Reduce applies a to s. On error s is returned unchanged.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case SelectMonth:
		return selectMonth(s, a)
	case SelectParticipant:
		return selectParticipant(s, a)
	case SetWindow:
		w, err := model.ParseWindow(string(a.Window))
		if err != nil {
			return s, err
		}
		s.Window = w
		return s, nil
	case RecordSample:
		return recordSample(s, a)
	case AddParticipant:
		return addParticipant(s, a)
	case ResetBaseline:
		base := make(map[string]model.Participant, len(s.Participants))
		for _, p := range s.Participants {
			base[p.ID] = p.Clone()
		}
		s.Baseline = base
		return s, nil
	}
	return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
}

func selectMonth(s State, a SelectMonth) (State, error) {
	month, err := model.ParseMonth(string(a.Month))
	if err != nil {
		return s, err
	}
	s.ActiveMonth = month
	i := s.index(s.SelectedID)
	if i < 0 {
		return s, nil
	}
	return s.withParticipant(i, history.SyncMonth(s.Participants[i], month)), nil
}

func selectParticipant(s State, a SelectParticipant) (State, error) {
	i := s.index(a.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownParticipant, a.ID)
	}
	s.SelectedID = a.ID
	if s.ActiveMonth == "" {
		return s, nil
	}
	return s.withParticipant(i, history.SyncMonth(s.Participants[i], s.ActiveMonth)), nil
}

func recordSample(s State, a RecordSample) (State, error) {
	i := s.index(a.ParticipantID)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownParticipant, a.ParticipantID)
	}
	if _, ok := s.Participants[i].Metric(a.MetricID); !ok {
		return s, fmt.Errorf("%w: %s/%s", ErrUnknownMetric, a.ParticipantID, a.MetricID)
	}
	p := s.Participants[i].MapMetrics(func(m model.Metric) model.Metric {
		if m.ID != a.MetricID {
			return m
		}
		return model.RecordSample(m, a.Timestamp, a.Value)
	})
	if s.ActiveMonth != "" {
		p = history.SyncMonth(p, s.ActiveMonth)
	}
	return s.withParticipant(i, p), nil
}

func addParticipant(s State, a AddParticipant) (State, error) {
	p := a.Participant
	if p.ID == "" {
		return s, fmt.Errorf("%w: missing id", ErrInvalidParticipant)
	}
	if s.index(p.ID) >= 0 {
		return s, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
	}
	base := make(map[string]model.Participant, len(s.Baseline)+1)
	for id, bp := range s.Baseline {
		base[id] = bp
	}
	base[p.ID] = p.Clone()
	if s.ActiveMonth != "" {
		p = history.SyncMonth(p, s.ActiveMonth)
	} else {
		p = p.Clone()
	}
	ps := make([]model.Participant, len(s.Participants), len(s.Participants)+1)
	copy(ps, s.Participants)
	s.Participants = append(ps, p)
	s.Baseline = base
	return s, nil
}
