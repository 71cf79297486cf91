// Package api serves the KPI dashboard over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	service "github.com/okian/stationkpi/internal/app"
	"github.com/okian/stationkpi/pkg/logger"
)

const (
	defaultMaxLimit = 100
	maxBodyBytes    = 1 << 20
)

// Dependencies bundles everything the handlers need. Each handler only
// depends on its own slice of it.
type Dependencies interface {
	SampleDependencies
	ParticipantDependencies
	CompetitionDependencies
	ForecastDependencies
	StateDependencies
	StatsProvider
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	health       *HealthHandler
	stats        *StatsHandler
	samples      *SamplesHandler
	participants *ParticipantsHandler
	competition  *CompetitionHandler
	forecast     *ForecastHandler
	state        *StateHandler

	logger logger.Logger
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	maxLimit int
	logger   logger.Logger
}

// WithMaxLimit caps GET /competition?limit.
func WithMaxLimit(n int) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxLimit = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates the API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := serverOptions{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("http")
	}
	return &Server{
		health:       NewHealthHandler(),
		stats:        NewStatsHandler(deps),
		samples:      NewSamplesHandler(deps),
		participants: NewParticipantsHandler(deps),
		competition:  NewCompetitionHandler(deps, o.maxLimit),
		forecast:     NewForecastHandler(deps),
		state:        NewStateHandler(deps),
		logger:       o.logger,
	}
}

// Router returns a router with every route registered.
func (s *Server) Router(ctx context.Context) *mux.Router {
	r := mux.NewRouter()
	s.Register(ctx, r)
	return r
}

// Register attaches all routes and middleware to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.HandleFunc("/healthz", MetricsMiddleware(s.health.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", s.health.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.stats.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/samples", MetricsMiddleware(s.samples.HandlePostSample, "samples")).Methods(http.MethodPost)

	r.HandleFunc("/participants", MetricsMiddleware(s.participants.HandleList, "participants")).Methods(http.MethodGet)
	r.HandleFunc("/participants", MetricsMiddleware(s.participants.HandleCreate, "participants")).Methods(http.MethodPost)
	r.HandleFunc("/participants/{id}", MetricsMiddleware(s.participants.HandleGet, "participant")).Methods(http.MethodGet)

	r.HandleFunc("/competition", MetricsMiddleware(s.competition.HandleGetCompetition, "competition")).Methods(http.MethodGet)

	r.HandleFunc("/forecast/network", MetricsMiddleware(s.forecast.HandleNetwork, "forecast_network")).Methods(http.MethodGet)
	r.HandleFunc("/forecast/participants/{id}/metrics/{metricID}", MetricsMiddleware(s.forecast.HandleMetric, "forecast_metric")).Methods(http.MethodGet)

	r.HandleFunc("/state", MetricsMiddleware(s.state.HandleGet, "state")).Methods(http.MethodGet)
	r.HandleFunc("/state/month", MetricsMiddleware(s.state.HandlePutMonth, "state_month")).Methods(http.MethodPut)
	r.HandleFunc("/state/selection", MetricsMiddleware(s.state.HandlePutSelection, "state_selection")).Methods(http.MethodPut)
	r.HandleFunc("/state/window", MetricsMiddleware(s.state.HandlePutWindow, "state_window")).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps a service error kind to its HTTP status.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", Wrap(op, err))
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

// decodeJSON reads a single JSON object from r into v, rejecting unknown
// fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
