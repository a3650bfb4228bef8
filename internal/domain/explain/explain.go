// Package explain turns score breakdowns into human-readable explanations:
// a summary sentence, per-component contributions, strengths, weaknesses,
// and a recommendation tier. Pure functions of already-computed scores; no
// side effects, no I/O.
package explain

import (
	"fmt"
	"strings"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/scoring"
)

// Strength triggers: each independently contributes one bullet.
const (
	semanticStrongScore   = 0.75
	minStrongMatchedSkill = 3
	experienceStrongScore = 0.9
	locationStrongScore   = 0.8
)

// Weakness triggers: the complementary low-score conditions.
const (
	semanticWeakScore   = 0.60
	experienceWeakScore = 0.7
	locationWeakScore   = 0.5
)

// maxListedSkills bounds how many skills a single bullet names.
const maxListedSkills = 3

// Recommendation is a hiring recommendation tier.
type Recommendation string

// Recommendation tiers, best first.
const (
	StrongRecommend Recommendation = "STRONG_RECOMMEND"
	Recommend       Recommendation = "RECOMMEND"
	Consider        Recommendation = "CONSIDER"
	Maybe           Recommendation = "MAYBE"
	NotRecommended  Recommendation = "NOT_RECOMMENDED"
)

// Bands holds the total-score thresholds for the recommendation tiers.
// Validated once at startup; thresholds must be strictly descending.
type Bands struct {
	StrongRecommend float64 `koanf:"strong_recommend" json:"strong_recommend"`
	Recommend       float64 `koanf:"recommend" json:"recommend"`
	Consider        float64 `koanf:"consider" json:"consider"`
	Maybe           float64 `koanf:"maybe" json:"maybe"`
}

// DefaultBands returns the stock recommendation thresholds.
func DefaultBands() Bands {
	return Bands{StrongRecommend: 0.85, Recommend: 0.75, Consider: 0.65, Maybe: 0.55}
}

// Validate checks that the thresholds are in (0,1) and strictly descending.
func (b Bands) Validate() error {
	values := []float64{b.StrongRecommend, b.Recommend, b.Consider, b.Maybe}
	for _, v := range values {
		if v <= 0 || v >= 1 {
			return fmt.Errorf("%w: threshold %.3f outside (0,1)", ErrInvalidBands, v)
		}
	}
	for i := 1; i < len(values); i++ {
		if values[i] >= values[i-1] {
			return fmt.Errorf("%w: thresholds must be strictly descending", ErrInvalidBands)
		}
	}
	return nil
}

// Advice is a recommendation tier with its rationale and follow-ups.
type Advice struct {
	Decision   Recommendation `json:"decision"`
	Rationale  string         `json:"rationale"`
	NextSteps  []string       `json:"next_steps"`
	Confidence float64        `json:"confidence"`
}

// Advise maps a total score to a hiring recommendation.
func (b Bands) Advise(total float64) Advice {
	switch {
	case total >= b.StrongRecommend:
		return Advice{
			Decision:   StrongRecommend,
			Rationale:  "Excellent overall match. Candidate should be prioritized for interview.",
			NextSteps:  []string{"Schedule interview immediately", "Prepare detailed technical assessment"},
			Confidence: total,
		}
	case total >= b.Recommend:
		return Advice{
			Decision:   Recommend,
			Rationale:  "Strong match across multiple criteria. Solid candidate worth pursuing.",
			NextSteps:  []string{"Schedule phone screening", "Review portfolio and work samples"},
			Confidence: total,
		}
	case total >= b.Consider:
		return Advice{
			Decision:   Consider,
			Rationale:  "Good potential match. Review in detail and compare with other candidates.",
			NextSteps:  []string{"Detailed profile review", "Skills assessment", "Compare with shortlist"},
			Confidence: total,
		}
	case total >= b.Maybe:
		return Advice{
			Decision:   Maybe,
			Rationale:  "Moderate match. Consider if the candidate pool is limited or specific strengths align.",
			NextSteps:  []string{"Assess specific skill gaps", "Consider for a different role"},
			Confidence: total,
		}
	default:
		return Advice{
			Decision:   NotRecommended,
			Rationale:  "Insufficient match for this particular role.",
			NextSteps:  []string{"Consider for other positions", "Keep in talent pool for future opportunities"},
			Confidence: total,
		}
	}
}

// Component explains one score component's contribution to the total.
type Component struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Explanation  string  `json:"explanation"`
}

// Explanation is the full human-readable view of one match.
type Explanation struct {
	Summary        string      `json:"summary"`
	Components     []Component `json:"score_components"`
	Strengths      []string    `json:"strengths"`
	Weaknesses     []string    `json:"weaknesses"`
	Recommendation Advice      `json:"recommendation"`
}

// Generator produces explanations against a fixed weight vector and band
// configuration.
type Generator struct {
	weights scoring.Weights
	bands   Bands
}

// NewGenerator creates an explanation generator.
func NewGenerator(weights scoring.Weights, opts ...Option) *Generator {
	g := &Generator{
		weights: weights,
		bands:   DefaultBands(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Bands returns the generator's band configuration.
func (g *Generator) Bands() Bands {
	return g.bands
}

// Explain builds the full explanation for one scored match. The evolution
// record is optional; when present its bonus is reflected in the summary.
func (g *Generator) Explain(c *model.Candidate, scores model.ScoreBreakdown, rec *model.EvolutionRecord) Explanation {
	return Explanation{
		Summary:        g.summary(c, scores, rec),
		Components:     g.components(scores),
		Strengths:      g.strengths(c, scores),
		Weaknesses:     g.weaknesses(c, scores),
		Recommendation: g.bands.Advise(scores.Total),
	}
}

func (g *Generator) summary(c *model.Candidate, scores model.ScoreBreakdown, rec *model.EvolutionRecord) string {
	var quality string
	switch {
	case scores.Total >= g.bands.StrongRecommend:
		quality = "excellent"
	case scores.Total >= g.bands.Recommend:
		quality = "strong"
	case scores.Total >= g.bands.Consider:
		quality = "good"
	case scores.Total >= g.bands.Maybe:
		quality = "moderate"
	default:
		quality = "partial"
	}

	summary := fmt.Sprintf(
		"%s is a %s with an overall match score of %.0f%%, indicating a %s fit for this position.",
		c.Name, c.CurrentTitle, scores.Total*100, quality,
	)
	if rec != nil {
		summary += fmt.Sprintf(
			" Dormant for %d months; the evolution bonus lifts the adjusted score to %.0f%%.",
			rec.MonthsDormant, rec.TotalWithEvolution*100,
		)
	}
	return summary
}

func (g *Generator) components(scores model.ScoreBreakdown) []Component {
	matched := len(scores.MatchedSkills)
	required := matched + len(scores.MissingSkills)

	skillsExplanation := "No specific skills required for this position."
	if required > 0 {
		skillsExplanation = fmt.Sprintf(
			"Candidate possesses %d out of %d required skills (%.0f%% coverage).",
			matched, required, float64(matched)/float64(required)*100,
		)
	}

	var semanticInterpretation string
	switch {
	case scores.Semantic >= semanticStrongScore:
		semanticInterpretation = "Strong alignment"
	case scores.Semantic >= semanticWeakScore:
		semanticInterpretation = "Moderate alignment"
	default:
		semanticInterpretation = "Limited alignment"
	}

	return []Component{
		{
			Name:         "Semantic Match",
			Score:        scores.Semantic,
			Weight:       g.weights.Semantic,
			Contribution: scores.Semantic * g.weights.Semantic,
			Explanation:  semanticInterpretation + " between the candidate profile and the job requirements.",
		},
		{
			Name:         "Skills Match",
			Score:        scores.Skills,
			Weight:       g.weights.Skills,
			Contribution: scores.Skills * g.weights.Skills,
			Explanation:  skillsExplanation,
		},
		{
			Name:         "Experience Match",
			Score:        scores.Experience,
			Weight:       g.weights.Experience,
			Contribution: scores.Experience * g.weights.Experience,
			Explanation:  experienceStatus(scores.Experience),
		},
		{
			Name:         "Location Match",
			Score:        scores.Location,
			Weight:       g.weights.Location,
			Contribution: scores.Location * g.weights.Location,
			Explanation:  locationStatus(scores.Location),
		},
	}
}

func experienceStatus(score float64) string {
	switch {
	case score >= experienceStrongScore:
		return "Perfect fit for the required experience range."
	case score >= experienceWeakScore:
		return "Good fit for the required experience range."
	default:
		return "Experience gap exists against the required range."
	}
}

func locationStatus(score float64) string {
	switch {
	case score >= locationStrongScore:
		return "Location alignment or remote flexibility."
	case score >= locationWeakScore:
		return "Partial location compatibility."
	default:
		return "Location mismatch without a remote arrangement."
	}
}

func (g *Generator) strengths(c *model.Candidate, scores model.ScoreBreakdown) []string {
	var strengths []string

	if scores.Semantic >= semanticStrongScore {
		strengths = append(strengths, fmt.Sprintf(
			"Exceptional semantic match (%.0f%%): profile aligns closely with job requirements",
			scores.Semantic*100,
		))
	}
	if len(scores.MatchedSkills) >= minStrongMatchedSkill {
		strengths = append(strengths, "Relevant skills: "+strings.Join(scores.MatchedSkills, ", "))
	}
	if scores.Experience >= experienceStrongScore {
		strengths = append(strengths, fmt.Sprintf(
			"%.0f years of highly relevant experience", c.YearsExperience,
		))
	}
	if scores.Location >= locationStrongScore {
		strengths = append(strengths, "Location alignment or remote flexibility")
	}

	if len(strengths) == 0 {
		strengths = []string{"Profile shows general alignment with requirements"}
	}
	return strengths
}

func (g *Generator) weaknesses(_ *model.Candidate, scores model.ScoreBreakdown) []string {
	var weaknesses []string

	if scores.Semantic < semanticWeakScore {
		weaknesses = append(weaknesses, "Limited semantic alignment: profile may not fully match the job context")
	}
	if n := len(scores.MissingSkills); n > 0 {
		if n <= maxListedSkills {
			weaknesses = append(weaknesses, "Missing skills: "+strings.Join(scores.MissingSkills, ", "))
		} else {
			weaknesses = append(weaknesses, fmt.Sprintf(
				"Missing %d required skills including: %s",
				n, strings.Join(scores.MissingSkills[:maxListedSkills], ", "),
			))
		}
	}
	if scores.Experience < experienceWeakScore {
		weaknesses = append(weaknesses, "Experience gap exists against the required range")
	}
	if scores.Location < locationWeakScore {
		weaknesses = append(weaknesses, "Location mismatch may require relocation or a remote work arrangement")
	}

	if len(weaknesses) == 0 {
		weaknesses = []string{"No significant weaknesses identified"}
	}
	return weaknesses
}
