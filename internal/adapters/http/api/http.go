// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rematch/internal/adapters/embedding"
	"github.com/okian/rematch/internal/adapters/repository"
	service "github.com/okian/rematch/internal/app"
	"github.com/okian/rematch/internal/domain/model"
)

// Report shapes returned by ranking calls.
type (
	MatchReport   = service.MatchReport
	DormantReport = service.DormantReport
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Write operations.
	AddCandidate(ctx context.Context, c model.Candidate) error
	AddJob(ctx context.Context, j model.Job) error
	// Enqueue submits an application for async ingest. Returns false
	// without error for duplicates, ErrQueueFull on backpressure.
	Enqueue(ctx context.Context, a model.Application) (bool, error)

	// Read operations.
	Candidate(ctx context.Context, id string) (model.Candidate, error)
	Match(ctx context.Context, jobID string, topK int, filter *model.FilterSpec, openSearch bool) (*MatchReport, error)
	DetectDormant(ctx context.Context, jobID string, minScore float64) (*DormantReport, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	matchHandler        *MatchHandler
	dormantHandler      *DormantHandler
	applicationsHandler *ApplicationsHandler
	candidatesHandler   *CandidatesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		matchHandler:        NewMatchHandler(deps),
		dormantHandler:      NewDormantHandler(deps),
		applicationsHandler: NewApplicationsHandler(deps),
		candidatesHandler:   NewCandidatesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("/dormant", MetricsMiddleware(s.dormantHandler.HandleDetect, "dormant"))
	mux.HandleFunc("/applications", MetricsMiddleware(s.applicationsHandler.HandlePostApplication, "applications"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.candidatesHandler.HandlePostJob, "jobs"))
	mux.HandleFunc("/candidates", MetricsMiddleware(s.candidatesHandler.HandlePostCandidate, "candidates"))
	mux.HandleFunc("/candidates/", MetricsMiddleware(s.candidatesHandler.HandleGetCandidate, "candidate"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
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

// writeDomainError translates known error kinds to their HTTP status.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrCandidateNotFound), errors.Is(err, repository.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, model.ErrInvalidRecord), errors.Is(err, model.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, embedding.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
