package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	service "github.com/okian/stationkpi/internal/app"
	"github.com/okian/stationkpi/internal/domain/model"
)

// ParticipantDependencies is what the participant routes need.
type ParticipantDependencies interface {
	Participants(ctx context.Context) ([]service.Summary, error)
	CreateParticipant(ctx context.Context, name, role string) (model.Participant, error)
	View(ctx context.Context, id string, month model.Month, w model.Window) (service.ParticipantView, error)
}

type createParticipantRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// ParticipantsHandler lists, creates and shows participants.
type ParticipantsHandler struct {
	deps ParticipantDependencies
}

// NewParticipantsHandler creates a new participants handler.
func NewParticipantsHandler(deps ParticipantDependencies) *ParticipantsHandler {
	return &ParticipantsHandler{deps: deps}
}

// HandleList handles GET /participants.
func (h *ParticipantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_participants"
	list, err := h.deps.Participants(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate handles POST /participants.
func (h *ParticipantsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_participant"
	var req createParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.CreateParticipant(r.Context(), req.Name, req.Role)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleGet handles GET /participants/{id}?month=YYYY-MM&window=monthly|quarterly|yearly.
func (h *ParticipantsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_participant"
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
	var window model.Window
	if raw := q.Get("window"); raw != "" {
		win, err := model.ParseWindow(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		window = win
	}

	view, err := h.deps.View(r.Context(), mux.Vars(r)["id"], month, window)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
