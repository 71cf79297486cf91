// Package state models the dashboard state as a value and its transitions
// as a pure reducer: Reduce(state, action) returns the next state and never
// modifies its input.
package state

import (
	"github.com/okian/stationkpi/internal/domain/history"
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/window"
)

// State is the full dashboard state.
//
// Participants hold the working copy whose current values follow the
// active month. Baseline holds the originally seeded copy of every
// participant and is only read by window aggregation.
type State struct {
	Participants []model.Participant
	Baseline     map[string]model.Participant
	ActiveMonth  model.Month
	SelectedID   string
	Window       model.Window
}

// New builds a state seeded with ps. The baseline is captured from ps.
func New(ps []model.Participant, active model.Month, w model.Window) State {
	s := State{
		Participants: make([]model.Participant, 0, len(ps)),
		Baseline:     make(map[string]model.Participant, len(ps)),
		ActiveMonth:  active,
		Window:       w,
	}
	if s.Window == "" {
		s.Window = model.Monthly
	}
	for _, p := range ps {
		s.Baseline[p.ID] = p.Clone()
		if active != "" {
			p = history.SyncMonth(p, active)
		} else {
			p = p.Clone()
		}
		s.Participants = append(s.Participants, p)
	}
	return s
}

// Participant returns the working copy of participant id.
func (s State) Participant(id string) (model.Participant, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Participant{}, false
	}
	return s.Participants[i], true
}

// Selected returns the selected participant, if any.
func (s State) Selected() (model.Participant, bool) {
	if s.SelectedID == "" {
		return model.Participant{}, false
	}
	return s.Participant(s.SelectedID)
}

// View returns participant id synced to month and seen through w. An empty
// month falls back to the active month; with neither, current values are
// used as stored.
func (s State) View(id string, month model.Month, w model.Window) (model.Participant, error) {
	p, ok := s.Participant(id)
	if !ok {
		return model.Participant{}, ErrUnknownParticipant
	}
	if month == "" {
		month = s.ActiveMonth
	}
	if month != "" {
		p = history.SyncMonth(p, month)
	}
	if w == "" {
		w = s.Window
	}
	return window.Apply(p, s.Baseline[id], w), nil
}

func (s State) index(id string) int {
	for i, p := range s.Participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// withParticipant returns a copy of s with the participant at i replaced.
func (s State) withParticipant(i int, p model.Participant) State {
	ps := make([]model.Participant, len(s.Participants))
	copy(ps, s.Participants)
	ps[i] = p
	s.Participants = ps
	return s
}
