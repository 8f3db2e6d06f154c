package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AJVG007/gestor-tareas/internal/domain"
	"github.com/AJVG007/gestor-tareas/internal/service"
	apperrors "github.com/AJVG007/gestor-tareas/pkg/errors"
	"github.com/AJVG007/gestor-tareas/pkg/validator"
)

// TareaHandler handles HTTP requests for the tarea endpoints. All of them
// require an authenticated identity; the service scopes every operation to it.
type TareaHandler struct {
	service *service.TareaService
	logger  *slog.Logger
}

// NewTareaHandler creates a new tarea HTTP handler.
func NewTareaHandler(svc *service.TareaService, logger *slog.Logger) *TareaHandler {
	return &TareaHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateTareaRequest is the JSON request body for creating a tarea. Ownership
// is not accepted from the client; it always comes from the authenticated
// identity.
type CreateTareaRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// --- Response types ---

// TareaResponse is the JSON shape of a tarea. Owner carries the owning user's
// username, which is always the authenticated caller.
type TareaResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	Owner       string    `json:"owner"`
}

func toTareaResponse(t *domain.Tarea, owner string) TareaResponse {
	return TareaResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		Owner:       owner,
	}
}

func toTareaResponses(tareas []domain.Tarea, owner string) []TareaResponse {
	out := make([]TareaResponse, 0, len(tareas))
	for i := range tareas {
		out = append(out, toTareaResponse(&tareas[i], owner))
	}
	return out
}

// --- Handlers ---

// List handles GET /tarea/list
func (h *TareaHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := requireIdentity(w, r)
	if identity == nil {
		return
	}

	tareas, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: toTareaResponses(tareas, identity.Username)})
}

// FilterCompleted handles GET /tarea/filter/completed
func (h *TareaHandler) FilterCompleted(w http.ResponseWriter, r *http.Request) {
	identity := requireIdentity(w, r)
	if identity == nil {
		return
	}

	tareas, err := h.service.ListCompleted(r.Context(), identity.UserID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: toTareaResponses(tareas, identity.Username)})
}

// Create handles POST /tarea/create
func (h *TareaHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := requireIdentity(w, r)
	if identity == nil {
		return
	}

	var req CreateTareaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	tarea, err := h.service.Create(r.Context(), identity.UserID, input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: toTareaResponse(tarea, identity.Username)})
}

// Detail handles GET /tarea/detail/{id}
func (h *TareaHandler) Detail(w http.ResponseWriter, r *http.Request) {
	identity := requireIdentity(w, r)
	if identity == nil {
		return
	}

	id, ok := h.tareaID(w, r)
	if !ok {
		return
	}

	tarea, err := h.service.Get(r.Context(), identity.UserID, id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: toTareaResponse(tarea, identity.Username)})
}

// Update handles PATCH /tarea/update/{id}
func (h *TareaHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := requireIdentity(w, r)
	if identity == nil {
		return
	}

	id, ok := h.tareaID(w, r)
	if !ok {
		return
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	patch, err := domain.ComputeUpdate(payload)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	tarea, err := h.service.Update(r.Context(), identity.UserID, id, patch)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: toTareaResponse(tarea, identity.Username)})
}

// Delete handles DELETE /tarea/delete/{id}
func (h *TareaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := requireIdentity(w, r)
	if identity == nil {
		return
	}

	id, ok := h.tareaID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// tareaID parses the {id} path parameter. A non-numeric id cannot name any
// tarea, so it is reported as not found rather than as a malformed request.
func (h *TareaHandler) tareaID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeAppError(w, r, apperrors.NotFound("tarea", raw), h.logger)
		return 0, false
	}
	return id, true
}
