// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	QueryDependencies
	RunnerDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	queryHandler   *QueryHandler
	runnersHandler *RunnersHandler

	mutationLimiter *rate.Limiter
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMutationRateLimit limits insert, update and delete requests to rps
// per second with the given burst. A non-positive rps disables limiting.
func WithMutationRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.mutationLimiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.mutationLimiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		queryHandler:   NewQueryHandler(deps),
		runnersHandler: NewRunnersHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/queries", MetricsMiddleware(s.queryHandler.HandleList, "queries"))
	mux.HandleFunc("/query/", MetricsMiddleware(s.queryHandler.HandleQuery, "query"))
	mux.HandleFunc("/report", MetricsMiddleware(s.queryHandler.HandleReport, "report"))

	mux.HandleFunc("/all_runners", MetricsMiddleware(s.runnersHandler.HandleAll, "all_runners"))
	s.mutation(mux, "/insert_runner", "insert_runner", s.runnersHandler.HandleInsert)
	s.mutation(mux, "/update_runner", "update_runner", s.runnersHandler.HandleUpdate)
	s.mutation(mux, "/delete_runner", "delete_runner", s.runnersHandler.HandleDelete)
}

func (s *Server) mutation(mux *http.ServeMux, pattern, endpoint string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, MetricsMiddleware(RateLimitMiddleware(h, s.mutationLimiter, endpoint), endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var validate = validator.New()

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
