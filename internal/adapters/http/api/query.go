package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/marathon/internal/domain/catalog"
)

// QueryDependencies defines the interface for catalog queries.
type QueryDependencies interface {
	Queries() []catalog.Query
	Run(ctx context.Context, q catalog.Query) (catalog.Result, error)
	Report(ctx context.Context) ([]catalog.Result, error)
}

// QueryHandler serves the numbered query catalog.
type QueryHandler struct {
	deps QueryDependencies
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(deps QueryDependencies) *QueryHandler {
	return &QueryHandler{deps: deps}
}

// HandleQuery handles GET /query/{n}. The response body is the bare result
// array.
func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	const op = "api.query"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := catalog.Parse(strings.TrimPrefix(r.URL.Path, "/query/"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", WrapKind(op, ErrInvalidQuery, err))
		return
	}
	res, err := h.deps.Run(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, res.Rows)
}

// HandleList handles GET /queries.
func (h *QueryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Queries())
}

// HandleReport handles GET /report: every query result keyed by selector.
func (h *QueryHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	results, err := h.deps.Report(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	out := make(map[string]catalog.Result, len(results))
	for _, res := range results {
		out[strconv.Itoa(res.Query)] = res
	}
	writeJSON(w, http.StatusOK, out)
}
