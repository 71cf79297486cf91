package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/stationkpi/internal/domain/competition"
	"github.com/okian/stationkpi/internal/domain/model"
)

// CompetitionDependencies defines the interface for ranking operations.
type CompetitionDependencies interface {
	Competition(ctx context.Context, month model.Month, limit int) (competition.Ranking, error)
}

// CompetitionHandler handles competition requests.
type CompetitionHandler struct {
	deps     CompetitionDependencies
	maxLimit int
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(deps CompetitionDependencies, maxLimit int) *CompetitionHandler {
	return &CompetitionHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetCompetition handles GET /competition?month=YYYY-MM&limit=N. Both
// parameters are optional; the month defaults to the active month and the
// limit to the configured maximum.
func (h *CompetitionHandler) HandleGetCompetition(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_competition"
	q := r.URL.Query()

	var month model.Month
	if raw := q.Get("month"); raw != "" {
		m, err := model.ParseMonth(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		month = m
	}

	limit := h.maxLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	ranking, err := h.deps.Competition(r.Context(), month, limit)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}
