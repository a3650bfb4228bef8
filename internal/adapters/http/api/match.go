// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/rematch/internal/domain/model"
)

// MatchHandler handles candidate ranking requests.
type MatchHandler struct {
	deps Dependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps Dependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// matchRequest mirrors the request schema for POST /match.
type matchRequest struct {
	JobID      string            `json:"job_id"`
	TopK       int               `json:"top_k"`
	OpenSearch bool              `json:"open_search"`
	Filters    *model.FilterSpec `json:"filters,omitempty"`
}

func (m matchRequest) validate() error {
	if strings.TrimSpace(m.JobID) == "" {
		return NewKind("api.match", ErrBadRequest)
	}
	if m.TopK < 0 {
		return NewKind("api.match", ErrBadRequest)
	}
	return nil
}

// HandleMatch handles POST /match requests.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	report, err := h.deps.Match(r.Context(), req.JobID, req.TopK, req.Filters, req.OpenSearch)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
