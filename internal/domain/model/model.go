// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for application dates.
const DateLayout = "2006-01-02"

// RemoteMode describes a remote-work arrangement for jobs and candidates.
type RemoteMode string

// Remote-work modes.
const (
	RemoteOff    RemoteMode = "onsite"
	RemoteOn     RemoteMode = "remote"
	RemoteHybrid RemoteMode = "hybrid"
)

// ParseRemoteMode parses a remote-work mode, defaulting to onsite.
func ParseRemoteMode(s string) (RemoteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "onsite", "no", "false":
		return RemoteOff, nil
	case "remote", "yes", "true":
		return RemoteOn, nil
	case "hybrid":
		return RemoteHybrid, nil
	default:
		return RemoteOff, fmt.Errorf("unknown remote mode: %q", s)
	}
}

// Candidate is a job-seeker profile.
type Candidate struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	CurrentTitle        string     `json:"current_title"`
	Summary             string     `json:"summary"`
	Skills              []string   `json:"skills"`
	Languages           []string   `json:"languages,omitempty"`
	Certifications      []string   `json:"certifications,omitempty"`
	YearsExperience     float64    `json:"years_experience"`
	ServiceLine         string     `json:"service_line"`
	Location            string     `json:"location"`
	RemotePreference    RemoteMode `json:"remote_preference"`
	LastApplicationDate time.Time  `json:"last_application_date,omitzero"`

	// Dormant is derived from LastApplicationDate against the configured
	// recency window. The repository keeps it current.
	Dormant bool `json:"is_dormant"`
}

// Validate checks required candidate fields.
func (c *Candidate) Validate() error {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return fmt.Errorf("candidate: %w: missing id", ErrInvalidRecord)
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("candidate %s: %w: missing name", c.ID, ErrInvalidRecord)
	case c.YearsExperience < 0:
		return fmt.Errorf("candidate %s: %w: negative years_experience", c.ID, ErrInvalidRecord)
	}
	return nil
}

// ProfileText composes the free-text representation fed to the embedding
// provider. Deterministic for identical input.
func (c *Candidate) ProfileText() string {
	parts := []string{
		"Title: " + c.CurrentTitle,
		"Summary: " + c.Summary,
		"Service Line: " + c.ServiceLine,
		fmt.Sprintf("Experience: %.0f years", c.YearsExperience),
	}
	if len(c.Certifications) > 0 {
		parts = append(parts, "Certifications: "+strings.Join(c.Certifications, ", "))
	}
	if len(c.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(c.Skills, ", "))
	}
	if len(c.Languages) > 0 {
		parts = append(parts, "Languages: "+strings.Join(c.Languages, ", "))
	}
	parts = append(parts, "Location: "+c.Location, "Remote: "+string(c.RemotePreference))
	return strings.Join(parts, ". ")
}

// Job is a posting candidates are matched against.
type Job struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	RequiredSkills []string   `json:"required_skills"`
	MinYears       float64    `json:"years_experience_min"`
	MaxYears       float64    `json:"years_experience_max"`
	Location       string     `json:"location"`
	Remote         RemoteMode `json:"remote"`
	ServiceLine    string     `json:"service_line"`
}

// Validate checks required job fields. A min/max inversion is rejected here,
// before any scoring begins.
func (j *Job) Validate() error {
	switch {
	case strings.TrimSpace(j.ID) == "":
		return fmt.Errorf("job: %w: missing id", ErrInvalidRecord)
	case strings.TrimSpace(j.Title) == "":
		return fmt.Errorf("job %s: %w: missing title", j.ID, ErrInvalidRecord)
	case j.MinYears < 0:
		return fmt.Errorf("job %s: %w: negative years_experience_min", j.ID, ErrInvalidRecord)
	case j.MinYears > j.MaxYears:
		return fmt.Errorf("job %s: %w: years_experience_min > years_experience_max", j.ID, ErrInvalidRecord)
	}
	return nil
}

// PostingText composes the free-text representation fed to the embedding
// provider. Deterministic for identical input.
func (j *Job) PostingText() string {
	parts := []string{
		"Position: " + j.Title,
		"Service Line: " + j.ServiceLine,
		"Description: " + j.Description,
		fmt.Sprintf("Required Experience: %.0f to %.0f years", j.MinYears, j.MaxYears),
	}
	if len(j.RequiredSkills) > 0 {
		parts = append(parts, "Required Skills: "+strings.Join(j.RequiredSkills, ", "))
	}
	parts = append(parts, "Location: "+j.Location, "Remote: "+string(j.Remote))
	return strings.Join(parts, ". ")
}

// Application is an immutable fact: candidate applied to job on a date.
type Application struct {
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	AppliedAt   time.Time `json:"applied_at"`
}

// Validate checks required application fields.
func (a *Application) Validate() error {
	switch {
	case strings.TrimSpace(a.CandidateID) == "":
		return fmt.Errorf("application: %w: missing candidate_id", ErrInvalidRecord)
	case strings.TrimSpace(a.JobID) == "":
		return fmt.Errorf("application: %w: missing job_id", ErrInvalidRecord)
	case a.AppliedAt.IsZero():
		return fmt.Errorf("application: %w: missing applied_at", ErrInvalidRecord)
	}
	return nil
}

// Key returns the idempotency key for an application fact. Value receiver
// so the key can be built from a composite literal.
func (a Application) Key() string {
	return a.CandidateID + "|" + a.JobID
}

// NormalizeSkills lower-cases and trims a skill list, dropping empties and
// duplicates. Order follows first appearance.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SkillSet converts a skill list into a normalized membership set.
func SkillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range NormalizeSkills(skills) {
		set[s] = struct{}{}
	}
	return set
}
