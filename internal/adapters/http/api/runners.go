package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/marathon/internal/domain/model"
)

// Mutation acknowledgements.
const (
	msgInserted = "Runner inserted successfully!"
	msgUpdated  = "Runner updated successfully!"
	msgDeleted  = "Runner deleted successfully!"
)

// RunnerDependencies defines the interface for runner reads and mutations.
type RunnerDependencies interface {
	AllRunners(ctx context.Context) ([]model.Runner, error)
	InsertRunner(ctx context.Context, r model.Runner) error
	UpdateRunner(ctx context.Context, bib string, p model.RunnerPatch) (bool, error)
	DeleteRunner(ctx context.Context, bib string) (bool, error)
}

// RunnersHandler serves the runner collection and its mutations.
type RunnersHandler struct {
	deps RunnerDependencies
}

// NewRunnersHandler creates a new runners handler.
func NewRunnersHandler(deps RunnerDependencies) *RunnersHandler {
	return &RunnersHandler{deps: deps}
}

// updateRequest carries the selector plus any subset of updatable fields.
type updateRequest struct {
	BibNumber string `json:"bib_number" validate:"required"`
	model.RunnerPatch
}

type deleteRequest struct {
	BibNumber string `json:"bib_number" validate:"required"`
}

// HandleAll handles GET /all_runners.
func (h *RunnersHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	const op = "api.all_runners"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	runners, err := h.deps.AllRunners(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, runners)
}

// HandleInsert handles POST /insert_runner. The body is stored as given.
func (h *RunnersHandler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	const op = "api.insert_runner"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.Runner
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.InsertRunner(r.Context(), req); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgInserted})
}

// HandleUpdate handles POST /update_runner. An unknown bib number still
// reports success.
func (h *RunnersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_runner"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if _, err := h.deps.UpdateRunner(r.Context(), req.BibNumber, req.RunnerPatch); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgUpdated})
}

// HandleDelete handles POST /delete_runner. An unknown bib number still
// reports success.
func (h *RunnersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_runner"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if _, err := h.deps.DeleteRunner(r.Context(), req.BibNumber); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgDeleted})
}
