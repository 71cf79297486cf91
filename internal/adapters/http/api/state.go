package api

import (
	"context"
	"net/http"

	service "github.com/okian/stationkpi/internal/app"
	"github.com/okian/stationkpi/internal/domain/model"
)

// StateDependencies defines the interface for dashboard state operations.
type StateDependencies interface {
	State(ctx context.Context) (service.StateView, error)
	SelectMonth(ctx context.Context, month model.Month) (service.StateView, error)
	SelectParticipant(ctx context.Context, id string) (service.StateView, error)
	SetWindow(ctx context.Context, w model.Window) (service.StateView, error)
}

type monthRequest struct {
	Month string `json:"month"`
}

type selectionRequest struct {
	ParticipantID string `json:"participant_id"`
}

type windowRequest struct {
	Window string `json:"window"`
}

// StateHandler reads and changes the dashboard state.
type StateHandler struct {
	deps StateDependencies
}

// NewStateHandler creates a new state handler.
func NewStateHandler(deps StateDependencies) *StateHandler {
	return &StateHandler{deps: deps}
}

// HandleGet handles GET /state.
func (h *StateHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_state"
	st, err := h.deps.State(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandlePutMonth handles PUT /state/month.
func (h *StateHandler) HandlePutMonth(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_state_month"
	var req monthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	month, err := model.ParseMonth(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.respond(w, r, op, func(ctx context.Context) (service.StateView, error) {
		return h.deps.SelectMonth(ctx, month)
	})
}

// HandlePutSelection handles PUT /state/selection.
func (h *StateHandler) HandlePutSelection(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_state_selection"
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.respond(w, r, op, func(ctx context.Context) (service.StateView, error) {
		return h.deps.SelectParticipant(ctx, req.ParticipantID)
	})
}

// HandlePutWindow handles PUT /state/window.
func (h *StateHandler) HandlePutWindow(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_state_window"
	var req windowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	win, err := model.ParseWindow(req.Window)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.respond(w, r, op, func(ctx context.Context) (service.StateView, error) {
		return h.deps.SetWindow(ctx, win)
	})
}

func (h *StateHandler) respond(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context) (service.StateView, error)) {
	st, err := fn(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
