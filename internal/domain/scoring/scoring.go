// Package scoring computes the component scores and the weighted total for
// candidate-job pairs. All scores live in [0,1].
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/rematch/internal/domain/model"
)

// Weight-sum tolerance for startup validation.
const weightSumEpsilon = 1e-6

// Default scoring configuration constants.
const (
	defaultNeutralSkillsScore = 0.8
	defaultJuniorPenaltyRate  = 0.15
	defaultJuniorPenaltyCap   = 0.5
	defaultSeniorPenaltyRate  = 0.05
	defaultSeniorPenaltyCap   = 0.3
	defaultRemoteTierScore    = 0.9
	defaultMismatchTierScore  = 0.3
)

// Weights is the fixed composition of the total score. Validated once at
// startup; a misconfigured vector is a startup-time fatal, never a per-call
// error.
type Weights struct {
	Semantic   float64 `koanf:"semantic" json:"semantic"`
	Skills     float64 `koanf:"skills" json:"skills"`
	Experience float64 `koanf:"experience" json:"experience"`
	Location   float64 `koanf:"location" json:"location"`
}

// DefaultWeights returns the stock weight vector.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.60, Skills: 0.25, Experience: 0.10, Location: 0.05}
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	return w.Semantic + w.Skills + w.Experience + w.Location
}

// Validate checks that every weight is non-negative and the vector sums to
// 1.0 within tolerance.
func (w Weights) Validate() error {
	if w.Semantic < 0 || w.Skills < 0 || w.Experience < 0 || w.Location < 0 {
		return fmt.Errorf("%w: negative weight", ErrInvalidWeights)
	}
	if math.Abs(w.Sum()-1.0) > weightSumEpsilon {
		return fmt.Errorf("%w: weights sum to %.6f, want 1.0", ErrInvalidWeights, w.Sum())
	}
	return nil
}

// Components bundles the four component scores for one candidate-job pair.
type Components struct {
	Semantic   float64
	Skills     float64
	Experience float64
	Location   float64
}

// Aggregate combines component scores into the weighted total. Inputs are
// clamped to [0,1] so the total stays in [0,1] for any valid weight vector.
func (w Weights) Aggregate(c Components) float64 {
	total := w.Semantic*Clamp01(c.Semantic) +
		w.Skills*Clamp01(c.Skills) +
		w.Experience*Clamp01(c.Experience) +
		w.Location*Clamp01(c.Location)
	return Clamp01(total)
}

// Clamp01 clamps x to [0,1].
func Clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// Scorer computes the three local component scores. It is pure and
// stateless per call; the semantic component comes from the embedding
// collaborator and is aggregated by the caller.
type Scorer struct {
	neutralSkillsScore float64
	juniorPenaltyRate  float64
	juniorPenaltyCap   float64
	seniorPenaltyRate  float64
	seniorPenaltyCap   float64
	remoteTierScore    float64
	mismatchTierScore  float64
}

// NewScorer creates a scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		neutralSkillsScore: defaultNeutralSkillsScore,
		juniorPenaltyRate:  defaultJuniorPenaltyRate,
		juniorPenaltyCap:   defaultJuniorPenaltyCap,
		seniorPenaltyRate:  defaultSeniorPenaltyRate,
		seniorPenaltyCap:   defaultSeniorPenaltyCap,
		remoteTierScore:    defaultRemoteTierScore,
		mismatchTierScore:  defaultMismatchTierScore,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Skills scores the case-insensitive overlap between candidate skills and
// the job's required skills: |intersection| / |required|. Jobs without
// required skills get the configured neutral default; there is never a
// division by zero. Matched and missing lists follow the job's skill order.
func (s *Scorer) Skills(c *model.Candidate, j *model.Job) (float64, []string, []string) {
	required := model.NormalizeSkills(j.RequiredSkills)
	if len(required) == 0 {
		return s.neutralSkillsScore, nil, nil
	}

	have := model.SkillSet(c.Skills)
	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, skill := range required {
		if _, ok := have[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return float64(len(matched)) / float64(len(required)), matched, missing
}

// Experience scores years of experience against the job's [min,max] range.
// Inside the range the score is exactly 1.0. Outside, the penalty grows with
// the gap from the nearest bound and is capped: under-qualification is
// penalized harder over a short window, over-qualification decays more
// gently over a wider one.
func (s *Scorer) Experience(years, minYears, maxYears float64) float64 {
	if years >= minYears && years <= maxYears {
		return 1.0
	}
	if years < minYears {
		penalty := math.Min((minYears-years)*s.juniorPenaltyRate, s.juniorPenaltyCap)
		return Clamp01(1.0 - penalty)
	}
	penalty := math.Min((years-maxYears)*s.seniorPenaltyRate, s.seniorPenaltyCap)
	return Clamp01(1.0 - penalty)
}

// Location scores in three tiers: 1.0 on exact match or a fully remote job;
// the remote tier when either party accepts remote or hybrid work; the
// mismatch floor otherwise.
func (s *Scorer) Location(c *model.Candidate, j *model.Job) float64 {
	if strings.EqualFold(c.Location, j.Location) || j.Remote == model.RemoteOn {
		return 1.0
	}
	if j.Remote == model.RemoteHybrid || c.RemotePreference == model.RemoteOn || c.RemotePreference == model.RemoteHybrid {
		return s.remoteTierScore
	}
	return s.mismatchTierScore
}

// Score computes the three local components plus matched/missing skills and
// folds in an externally supplied semantic score.
func (s *Scorer) Score(c *model.Candidate, j *model.Job, semantic float64, weights Weights) model.ScoreBreakdown {
	skills, matched, missing := s.Skills(c, j)
	components := Components{
		Semantic:   Clamp01(semantic),
		Skills:     skills,
		Experience: s.Experience(c.YearsExperience, j.MinYears, j.MaxYears),
		Location:   s.Location(c, j),
	}
	return model.ScoreBreakdown{
		Semantic:      components.Semantic,
		Skills:        components.Skills,
		Experience:    components.Experience,
		Location:      components.Location,
		Total:         weights.Aggregate(components),
		MatchedSkills: matched,
		MissingSkills: missing,
	}
}
