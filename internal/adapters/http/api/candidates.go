// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/okian/rematch/internal/domain/model"
)

// CandidatesHandler handles candidate and job registration plus candidate
// lookups.
type CandidatesHandler struct {
	deps Dependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps Dependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// candidateRequest mirrors the request schema for POST /candidates. Dates
// are calendar days, not timestamps.
type candidateRequest struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	CurrentTitle        string   `json:"current_title"`
	Summary             string   `json:"summary"`
	Skills              []string `json:"skills"`
	Languages           []string `json:"languages"`
	Certifications      []string `json:"certifications"`
	YearsExperience     float64  `json:"years_experience"`
	ServiceLine         string   `json:"service_line"`
	Location            string   `json:"location"`
	RemotePreference    string   `json:"remote_preference"`
	LastApplicationDate string   `json:"last_application_date"`
	Dormant             bool     `json:"is_dormant"`
}

func (c candidateRequest) toModel() (model.Candidate, error) {
	const op = "api.post_candidate"

	remote, err := model.ParseRemoteMode(c.RemotePreference)
	if err != nil {
		return model.Candidate{}, WrapKind(op, ErrBadRequest, err)
	}

	var lastApplication time.Time
	if strings.TrimSpace(c.LastApplicationDate) != "" {
		lastApplication, err = time.Parse(model.DateLayout, c.LastApplicationDate)
		if err != nil {
			return model.Candidate{}, WrapKind(op, ErrBadRequest, err)
		}
	}

	return model.Candidate{
		ID:                  c.ID,
		Name:                c.Name,
		CurrentTitle:        c.CurrentTitle,
		Summary:             c.Summary,
		Skills:              c.Skills,
		Languages:           c.Languages,
		Certifications:      c.Certifications,
		YearsExperience:     c.YearsExperience,
		ServiceLine:         c.ServiceLine,
		Location:            c.Location,
		RemotePreference:    remote,
		LastApplicationDate: lastApplication,
		Dormant:             c.Dormant,
	}, nil
}

// HandlePostCandidate handles POST /candidates requests.
func (h *CandidatesHandler) HandlePostCandidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_candidate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	candidate, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.deps.AddCandidate(r.Context(), candidate); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created", "id": candidate.ID})
}

// jobRequest mirrors the request schema for POST /jobs.
type jobRequest struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	MinYears       float64  `json:"years_experience_min"`
	MaxYears       float64  `json:"years_experience_max"`
	Location       string   `json:"location"`
	Remote         string   `json:"remote"`
	ServiceLine    string   `json:"service_line"`
}

func (j jobRequest) toModel() (model.Job, error) {
	const op = "api.post_job"

	remote, err := model.ParseRemoteMode(j.Remote)
	if err != nil {
		return model.Job{}, WrapKind(op, ErrBadRequest, err)
	}

	return model.Job{
		ID:             j.ID,
		Title:          j.Title,
		Description:    j.Description,
		RequiredSkills: j.RequiredSkills,
		MinYears:       j.MinYears,
		MaxYears:       j.MaxYears,
		Location:       j.Location,
		Remote:         remote,
		ServiceLine:    j.ServiceLine,
	}, nil
}

// HandlePostJob handles POST /jobs requests.
func (h *CandidatesHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	job, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.deps.AddJob(r.Context(), job); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created", "id": job.ID})
}

// HandleGetCandidate handles GET /candidates/{id} requests.
func (h *CandidatesHandler) HandleGetCandidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_candidate"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/candidates/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	candidate, err := h.deps.Candidate(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}
