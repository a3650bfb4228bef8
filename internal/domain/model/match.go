package model

import (
	"fmt"
	"strings"
)

// ScoreBreakdown holds the component scores for one candidate-job pair.
// All component scores and the weighted total are in [0,1]. Ephemeral:
// computed on demand, never persisted.
type ScoreBreakdown struct {
	Semantic   float64 `json:"semantic"`
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Location   float64 `json:"location"`
	Total      float64 `json:"total"`

	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

// GrowthTier summarizes a dormant candidate's elapsed time.
type GrowthTier string

// Growth tiers, coarsest first.
const (
	GrowthLow      GrowthTier = "LOW"
	GrowthModerate GrowthTier = "MODERATE"
	GrowthMedium   GrowthTier = "MEDIUM"
	GrowthHigh     GrowthTier = "HIGH"
)

// EvolutionRecord carries the time-dormant bonus attached to a rediscovered
// candidate. Lives exactly as long as the MatchResult referencing it.
type EvolutionRecord struct {
	MonthsDormant      int        `json:"months_dormant"`
	EvolutionScore     float64    `json:"evolution_score"`
	TotalWithEvolution float64    `json:"total_with_evolution"`
	GrowthTier         GrowthTier `json:"growth_tier"`
	Narrative          string     `json:"narrative"`
	LastApplication    string     `json:"last_application"`
}

// MatchResult is the unit returned by the ranking orchestrator.
type MatchResult struct {
	Candidate Candidate        `json:"candidate"`
	Scores    ScoreBreakdown   `json:"scores"`
	Evolution *EvolutionRecord `json:"evolution,omitempty"`
}

// RankScore returns the score this result is ordered by: the evolution-
// adjusted total for dormant matches, the plain total otherwise.
func (m *MatchResult) RankScore() float64 {
	if m.Evolution != nil {
		return m.Evolution.TotalWithEvolution
	}
	return m.Scores.Total
}

// FilterSpec enumerates the supported open-search predicates. A closed
// struct instead of a string-keyed map so unsupported filters cannot be
// silently ignored.
type FilterSpec struct {
	Location       *string  `json:"location,omitempty"`
	ServiceLine    *string  `json:"service_line,omitempty"`
	MinExperience  *float64 `json:"min_experience,omitempty"`
	MaxExperience  *float64 `json:"max_experience,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
}

// Validate rejects contradictory filter bounds.
func (f *FilterSpec) Validate() error {
	if f == nil {
		return nil
	}
	if f.MinExperience != nil && *f.MinExperience < 0 {
		return fmt.Errorf("%w: negative min_experience", ErrInvalidFilter)
	}
	if f.MinExperience != nil && f.MaxExperience != nil && *f.MinExperience > *f.MaxExperience {
		return fmt.Errorf("%w: min_experience > max_experience", ErrInvalidFilter)
	}
	return nil
}

// Matches reports whether a candidate passes every configured predicate.
// A nil spec passes everyone.
func (f *FilterSpec) Matches(c *Candidate) bool {
	if f == nil {
		return true
	}
	if f.Location != nil && !strings.EqualFold(c.Location, *f.Location) {
		return false
	}
	if f.ServiceLine != nil && !strings.EqualFold(c.ServiceLine, *f.ServiceLine) {
		return false
	}
	if f.MinExperience != nil && c.YearsExperience < *f.MinExperience {
		return false
	}
	if f.MaxExperience != nil && c.YearsExperience > *f.MaxExperience {
		return false
	}
	if len(f.RequiredSkills) > 0 {
		have := SkillSet(c.Skills)
		for _, want := range NormalizeSkills(f.RequiredSkills) {
			if _, ok := have[want]; !ok {
				return false
			}
		}
	}
	return true
}
