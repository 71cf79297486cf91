package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/stationkpi/internal/domain/competition"
	"github.com/okian/stationkpi/internal/domain/forecast"
	"github.com/okian/stationkpi/internal/domain/history"
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/scoring"
	"github.com/okian/stationkpi/internal/domain/state"
	"github.com/okian/stationkpi/internal/domain/template"
	"github.com/okian/stationkpi/pkg/logger"
	"github.com/okian/stationkpi/pkg/metrics"
)

// Summary is the list shape of a participant.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// ParticipantView is a participant synced to a month and seen through a
// window, with its score tree.
type ParticipantView struct {
	Month       model.Month       `json:"month"`
	Window      model.Window      `json:"window"`
	Participant model.Participant `json:"participant"`
	Breakdown   scoring.Result    `json:"breakdown"`
}

// MetricForecast is the projection of one metric.
type MetricForecast struct {
	ParticipantID string           `json:"participant_id"`
	MetricID      string           `json:"metric_id"`
	Available     bool             `json:"available"`
	Result        *forecast.Result `json:"result,omitempty"`
	Points        []forecast.Point `json:"points,omitempty"`
}

// NetworkForecast is the projection of the network composite score.
type NetworkForecast struct {
	Available bool             `json:"available"`
	Series    []float64        `json:"series"`
	Result    *forecast.Result `json:"result,omitempty"`
	Points    []forecast.Point `json:"points,omitempty"`
}

// StateView is the externally visible part of the dashboard state.
type StateView struct {
	ActiveMonth  model.Month   `json:"active_month"`
	SelectedID   string        `json:"selected_id,omitempty"`
	Window       model.Window  `json:"window"`
	Participants int           `json:"participants"`
	Months       []model.Month `json:"months"`
}

func (s *Service) current(ctx context.Context) (state.State, error) {
	if !s.Running() {
		return state.State{}, ErrNotStarted
	}
	return s.store.State(ctx), nil
}

// Participants lists every participant in insertion order.
func (s *Service) Participants(ctx context.Context) ([]Summary, error) {
	st, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(st.Participants))
	for _, p := range st.Participants {
		out = append(out, Summary{ID: p.ID, Name: p.Name, Role: p.Role})
	}
	return out, nil
}

// Roles lists the role templates participants can be created from.
func (s *Service) Roles() []string {
	return s.catalog.RoleIDs()
}

// CreateParticipant instantiates role as a new participant named name.
func (s *Service) CreateParticipant(ctx context.Context, name, role string) (model.Participant, error) {
	if !s.Running() {
		return model.Participant{}, ErrNotStarted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Participant{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	p, err := s.catalog.Instantiate(role, name)
	if err != nil {
		return model.Participant{}, classify(err)
	}
	if err := template.ValidateWeights(p.Categories); err != nil {
		return model.Participant{}, classify(err)
	}
	if _, err := s.store.Dispatch(ctx, state.AddParticipant{Participant: p}); err != nil {
		return model.Participant{}, classify(err)
	}
	s.logger.Info(ctx, "participant created",
		logger.String("participant_id", p.ID),
		logger.String("role", role),
	)
	return p, nil
}

// View returns participant id for month and window. Empty values fall back
// to the state's active month and window.
func (s *Service) View(ctx context.Context, id string, month model.Month, w model.Window) (ParticipantView, error) {
	st, err := s.current(ctx)
	if err != nil {
		return ParticipantView{}, err
	}
	start := time.Now()
	p, err := st.View(id, month, w)
	if err != nil {
		return ParticipantView{}, classify(fmt.Errorf("%w: %s", err, id))
	}
	if month == "" {
		month = st.ActiveMonth
	}
	if w == "" {
		w = st.Window
	}
	view := ParticipantView{Month: month, Window: w, Participant: p, Breakdown: scoring.Breakdown(p)}
	metrics.RecordScoringLatency("view", elapsedMs(start))
	return view, nil
}

// Competition ranks every participant on month's samples. An empty month
// uses the active month. A positive limit truncates the standings; the
// unscoreable list is never truncated.
func (s *Service) Competition(ctx context.Context, month model.Month, limit int) (competition.Ranking, error) {
	st, err := s.current(ctx)
	if err != nil {
		return competition.Ranking{}, err
	}
	if month == "" {
		month = st.ActiveMonth
	}
	if month == "" {
		return competition.Ranking{}, fmt.Errorf("%w: no month selected", ErrInvalidInput)
	}
	start := time.Now()
	r := competition.Rank(st.Participants, month)
	r.Standings = r.Top(limit)
	metrics.RecordScoringLatency("competition", elapsedMs(start))
	if len(r.Unscoreable) > 0 {
		s.logger.Debug(ctx, "unscoreable participants",
			logger.String("month", month.String()),
			logger.Int("count", len(r.Unscoreable)),
		)
	}
	return r, nil
}

// ForecastMetric projects the next value of one metric from its history.
func (s *Service) ForecastMetric(ctx context.Context, participantID, metricID string) (MetricForecast, error) {
	st, err := s.current(ctx)
	if err != nil {
		return MetricForecast{}, err
	}
	p, ok := st.Participant(participantID)
	if !ok {
		return MetricForecast{}, classify(fmt.Errorf("%w: %s", state.ErrUnknownParticipant, participantID))
	}
	m, ok := p.Metric(metricID)
	if !ok {
		return MetricForecast{}, classify(fmt.Errorf("%w: %s/%s", state.ErrUnknownMetric, participantID, metricID))
	}
	out := MetricForecast{ParticipantID: participantID, MetricID: metricID}
	if res, ok := forecast.Metric(m); ok {
		points, _ := forecast.Points(m.Values())
		out.Available, out.Result, out.Points = true, &res, points
	}
	metrics.RecordForecast("metric", out.Available)
	return out, nil
}

// ForecastNetwork projects the next network-wide composite score.
func (s *Service) ForecastNetwork(ctx context.Context) (NetworkForecast, error) {
	st, err := s.current(ctx)
	if err != nil {
		return NetworkForecast{}, err
	}
	series := forecast.NetworkSeries(st.Participants)
	out := NetworkForecast{Series: series}
	if res, ok := forecast.Next(series); ok {
		points, _ := forecast.Points(series)
		out.Available, out.Result, out.Points = true, &res, points
	}
	metrics.RecordForecast("network", out.Available)
	return out, nil
}

// State returns the active month, selection and window.
func (s *Service) State(ctx context.Context) (StateView, error) {
	st, err := s.current(ctx)
	if err != nil {
		return StateView{}, err
	}
	return stateView(st), nil
}

// SelectMonth changes the active month.
func (s *Service) SelectMonth(ctx context.Context, month model.Month) (StateView, error) {
	return s.dispatch(ctx, state.SelectMonth{Month: month})
}

// SelectParticipant changes the selected participant.
func (s *Service) SelectParticipant(ctx context.Context, id string) (StateView, error) {
	return s.dispatch(ctx, state.SelectParticipant{ID: id})
}

// SetWindow changes the reporting window.
func (s *Service) SetWindow(ctx context.Context, w model.Window) (StateView, error) {
	return s.dispatch(ctx, state.SetWindow{Window: w})
}

func (s *Service) dispatch(ctx context.Context, a state.Action) (StateView, error) {
	if !s.Running() {
		return StateView{}, ErrNotStarted
	}
	next, err := s.store.Dispatch(ctx, a)
	if err != nil {
		return StateView{}, classify(err)
	}
	return stateView(next), nil
}

func stateView(st state.State) StateView {
	seen := make(map[model.Month]struct{})
	for _, p := range st.Participants {
		for _, m := range history.Months(p) {
			seen[m] = struct{}{}
		}
	}
	months := make([]model.Month, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return StateView{
		ActiveMonth:  st.ActiveMonth,
		SelectedID:   st.SelectedID,
		Window:       st.Window,
		Participants: len(st.Participants),
		Months:       months,
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
