// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/spdi/internal/domain/history"
	"github.com/okian/spdi/internal/domain/model"
	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/rs/cors"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Validate(ctx context.Context, in spdi.MatchInput) []spdi.ValidationError
	Evaluate(ctx context.Context, in spdi.MatchInput) (model.Evaluation, error)
	EvaluateBatch(ctx context.Context, inputs []spdi.MatchInput) ([]model.Evaluation, error)
	History(ctx context.Context) ([]history.Point, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	spdiHandler      *SPDIHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		spdiHandler:      NewSPDIHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1/spdi").Subrouter()
	v1.HandleFunc("/validate", MetricsMiddleware(s.spdiHandler.HandleValidate, "validate")).Methods(http.MethodPost)
	v1.HandleFunc("/evaluate", MetricsMiddleware(s.spdiHandler.HandleEvaluate, "evaluate")).Methods(http.MethodPost)
	v1.HandleFunc("/batch", MetricsMiddleware(s.spdiHandler.HandleBatch, "batch")).Methods(http.MethodPost)
	v1.HandleFunc("/history", MetricsMiddleware(s.spdiHandler.HandleHistory, "history")).Methods(http.MethodGet)
}

// WithCORS wraps h so browsers on allowedOrigins may call the API.
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	})
	return c.Handler(h)
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
