// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// DormantHandler handles dormant talent detection requests.
type DormantHandler struct {
	deps Dependencies
}

// NewDormantHandler creates a new dormant detection handler.
func NewDormantHandler(deps Dependencies) *DormantHandler {
	return &DormantHandler{deps: deps}
}

// dormantRequest mirrors the request schema for POST /dormant.
type dormantRequest struct {
	JobID string `json:"job_id"`
	// MinScore <= 0 falls back to the configured default threshold.
	MinScore float64 `json:"min_score"`
}

func (d dormantRequest) validate() error {
	if strings.TrimSpace(d.JobID) == "" {
		return NewKind("api.dormant", ErrBadRequest)
	}
	if d.MinScore > 1 {
		return NewKind("api.dormant", ErrBadRequest)
	}
	return nil
}

// HandleDetect handles POST /dormant requests.
func (h *DormantHandler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	const op = "api.dormant"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req dormantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	report, err := h.deps.DetectDormant(r.Context(), req.JobID, req.MinScore)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
