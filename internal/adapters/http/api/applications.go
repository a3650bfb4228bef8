// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/okian/rematch/internal/domain/model"
)

// ApplicationsHandler handles application submissions.
type ApplicationsHandler struct {
	deps Dependencies
}

// NewApplicationsHandler creates a new applications handler.
func NewApplicationsHandler(deps Dependencies) *ApplicationsHandler {
	return &ApplicationsHandler{deps: deps}
}

// applicationRequest mirrors the request schema for POST /applications.
// Dates are calendar days, not timestamps.
type applicationRequest struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
	AppliedAt   string `json:"applied_at"`
}

func (a applicationRequest) toModel() (model.Application, error) {
	const op = "api.post_application"
	if strings.TrimSpace(a.CandidateID) == "" || strings.TrimSpace(a.JobID) == "" {
		return model.Application{}, NewKind(op, ErrBadRequest)
	}
	appliedAt, err := time.Parse(model.DateLayout, a.AppliedAt)
	if err != nil {
		return model.Application{}, WrapKind(op, ErrBadRequest, err)
	}
	return model.Application{
		CandidateID: a.CandidateID,
		JobID:       a.JobID,
		AppliedAt:   appliedAt,
	}, nil
}

// HandlePostApplication handles POST /applications requests.
func (h *ApplicationsHandler) HandlePostApplication(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_application"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	app, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	accepted, err := h.deps.Enqueue(r.Context(), app)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if !accepted {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
