package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/rematch/internal/domain/model"
)

// defaultDormancyThreshold is how long without an application makes a
// candidate dormant.
const defaultDormancyThreshold = 180 * 24 * time.Hour

// MemStore is an in-memory Store implementation backed by maps behind a
// single RWMutex. Dormancy is derived from the last application date at
// read time, so a candidate flips dormant without any background sweep.
type MemStore struct {
	mu           sync.RWMutex
	candidates   map[string]model.Candidate
	jobs         map[string]model.Job
	applications map[string]model.Application
	byJob        map[string][]string // job ID -> applicant candidate IDs
	byCandidate  map[string][]string // candidate ID -> applied job IDs

	dormancyThreshold time.Duration
	now               func() time.Time
}

// NewMemStore creates an empty in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		candidates:        make(map[string]model.Candidate),
		jobs:              make(map[string]model.Job),
		applications:      make(map[string]model.Application),
		byJob:             make(map[string][]string),
		byCandidate:       make(map[string][]string),
		dormancyThreshold: defaultDormancyThreshold,
		now:               time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddCandidate inserts or replaces a candidate profile.
func (s *MemStore) AddCandidate(ctx context.Context, c model.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.Skills = model.NormalizeSkills(c.Skills)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.ID] = c
	return nil
}

// AddJob inserts or replaces a job posting.
func (s *MemStore) AddJob(ctx context.Context, j model.Job) error {
	if err := j.Validate(); err != nil {
		return err
	}
	j.RequiredSkills = model.NormalizeSkills(j.RequiredSkills)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
	return nil
}

// RecordApplication stores an application and refreshes the candidate's
// last-application date when the application is newer.
func (s *MemStore) RecordApplication(ctx context.Context, a model.Application) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[a.CandidateID]
	if !ok {
		return ErrCandidateNotFound
	}
	if _, ok := s.jobs[a.JobID]; !ok {
		return ErrJobNotFound
	}

	key := a.Key()
	if _, exists := s.applications[key]; !exists {
		s.byJob[a.JobID] = append(s.byJob[a.JobID], a.CandidateID)
		s.byCandidate[a.CandidateID] = append(s.byCandidate[a.CandidateID], a.JobID)
	}
	s.applications[key] = a

	if a.AppliedAt.After(c.LastApplicationDate) {
		c.LastApplicationDate = a.AppliedAt
		s.candidates[c.ID] = c
	}
	return nil
}

// Candidate returns one candidate with its dormancy state evaluated.
func (s *MemStore) Candidate(ctx context.Context, id string) (model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.candidates[id]
	if !ok {
		return model.Candidate{}, ErrCandidateNotFound
	}
	return s.withDormancy(c), nil
}

// Job returns one job posting.
func (s *MemStore) Job(ctx context.Context, id string) (model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return model.Job{}, ErrJobNotFound
	}
	return j, nil
}

// Candidates returns the matching pool for a job, filtered and sorted by
// candidate ID for deterministic downstream ranking.
func (s *MemStore) Candidates(ctx context.Context, jobID string, filter *model.FilterSpec, openSearch bool) ([]model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.jobs[jobID]; !ok {
		return nil, ErrJobNotFound
	}

	var pool []model.Candidate
	if openSearch {
		pool = make([]model.Candidate, 0, len(s.candidates))
		for _, c := range s.candidates {
			pool = append(pool, s.withDormancy(c))
		}
	} else {
		ids := s.byJob[jobID]
		pool = make([]model.Candidate, 0, len(ids))
		for _, id := range ids {
			if c, ok := s.candidates[id]; ok {
				pool = append(pool, s.withDormancy(c))
			}
		}
	}

	if filter != nil {
		kept := pool[:0]
		for _, c := range pool {
			if filter.Matches(&c) {
				kept = append(kept, c)
			}
		}
		pool = kept
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool, nil
}

// DormantCandidates returns every dormant candidate sorted by ID.
func (s *MemStore) DormantCandidates(ctx context.Context) ([]model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dormant []model.Candidate
	for _, c := range s.candidates {
		if c = s.withDormancy(c); c.Dormant {
			dormant = append(dormant, c)
		}
	}
	sort.Slice(dormant, func(i, j int) bool { return dormant[i].ID < dormant[j].ID })
	return dormant, nil
}

// HasApplied reports whether the candidate already applied to the job.
func (s *MemStore) HasApplied(ctx context.Context, candidateID, jobID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.applications[model.Application{CandidateID: candidateID, JobID: jobID}.Key()]
	return ok
}

// Stats returns current pool sizes.
func (s *MemStore) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Candidates:   len(s.candidates),
		Jobs:         len(s.jobs),
		Applications: len(s.applications),
	}
	for _, c := range s.candidates {
		if s.withDormancy(c).Dormant {
			stats.Dormant++
		}
	}
	return stats
}

// withDormancy recomputes the dormant flag against the store's clock.
// Candidates with no application history keep whatever flag they carried
// on insert. Must be called with at least a read lock held.
func (s *MemStore) withDormancy(c model.Candidate) model.Candidate {
	if c.LastApplicationDate.IsZero() {
		return c
	}
	c.Dormant = s.now().Sub(c.LastApplicationDate) >= s.dormancyThreshold
	return c
}
