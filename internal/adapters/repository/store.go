// Package repository defines the talent store interface and errors.
package repository

import (
	"context"

	"github.com/okian/rematch/internal/domain/model"
)

// Stats reports the size of the stored talent pool.
type Stats struct {
	Candidates   int `json:"candidates"`
	Jobs         int `json:"jobs"`
	Applications int `json:"applications"`
	Dormant      int `json:"dormant_candidates"`
}

// Store provides read/write access to candidates, jobs, and applications.
type Store interface {
	// AddCandidate inserts or replaces a candidate profile.
	AddCandidate(ctx context.Context, c model.Candidate) error
	// AddJob inserts or replaces a job posting.
	AddJob(ctx context.Context, j model.Job) error

	// RecordApplication stores an application and refreshes the candidate's
	// last-application date. Returns ErrCandidateNotFound or ErrJobNotFound
	// when either side of the application is unknown.
	RecordApplication(ctx context.Context, a model.Application) error

	// Candidate returns one candidate with its dormancy state evaluated
	// against the store's clock. Returns ErrCandidateNotFound if unknown.
	Candidate(ctx context.Context, id string) (model.Candidate, error)
	// Job returns one job posting. Returns ErrJobNotFound if unknown.
	Job(ctx context.Context, id string) (model.Job, error)

	// Candidates returns the matching pool for a job: every applicant when
	// openSearch is false, the whole candidate base when it is true. A nil
	// filter admits everyone.
	Candidates(ctx context.Context, jobID string, filter *model.FilterSpec, openSearch bool) ([]model.Candidate, error)

	// DormantCandidates returns every candidate whose last application is
	// older than the dormancy threshold.
	DormantCandidates(ctx context.Context) ([]model.Candidate, error)

	// HasApplied reports whether the candidate already applied to the job.
	HasApplied(ctx context.Context, candidateID, jobID string) bool

	// Stats returns current pool sizes.
	Stats(ctx context.Context) Stats
}
