package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	service "github.com/okian/stationkpi/internal/app"
)

// ForecastDependencies defines the interface for forecast operations.
type ForecastDependencies interface {
	ForecastMetric(ctx context.Context, participantID, metricID string) (service.MetricForecast, error)
	ForecastNetwork(ctx context.Context) (service.NetworkForecast, error)
}

// ForecastHandler serves regression forecasts. A series too short to fit
// is answered with 200 and "available": false.
type ForecastHandler struct {
	deps ForecastDependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps ForecastDependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

// HandleMetric handles GET /forecast/participants/{id}/metrics/{metricID}.
func (h *ForecastHandler) HandleMetric(w http.ResponseWriter, r *http.Request) {
	const op = "api.forecast_metric"
	vars := mux.Vars(r)
	res, err := h.deps.ForecastMetric(r.Context(), vars["id"], vars["metricID"])
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleNetwork handles GET /forecast/network.
func (h *ForecastHandler) HandleNetwork(w http.ResponseWriter, r *http.Request) {
	const op = "api.forecast_network"
	res, err := h.deps.ForecastNetwork(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
