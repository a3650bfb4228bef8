// Package evolution computes the time-dormant bonus for rediscovered
// candidates, models the likelihood they have grown since their last
// application, and builds the surrounding alert surface.
package evolution

import (
	"fmt"
	"time"

	"github.com/okian/rematch/internal/domain/model"
)

// Default evolution configuration constants.
const (
	defaultEvolutionWeight = 0.2
	defaultCapMonths       = 24.0
	defaultMaxBonus        = 0.5
	daysPerMonth           = 30.0
	monthsPerYear          = 12
)

// Growth tier boundaries in months dormant.
const (
	moderateTierMonths = 6
	mediumTierMonths   = 12
	highTierMonths     = 24
)

// Engine turns dormancy durations into evolution bonuses. The bonus ramps
// linearly with months dormant and caps at maxBonus once capMonths is
// reached; the evolution weight scales the bonus onto the base total
// without redistributing the base weight vector.
type Engine struct {
	weight    float64
	capMonths float64
	maxBonus  float64
	now       func() time.Time
}

// NewEngine creates an evolution engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weight:    defaultEvolutionWeight,
		capMonths: defaultCapMonths,
		maxBonus:  defaultMaxBonus,
		now:       time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Weight returns the configured evolution weight.
func (e *Engine) Weight() float64 {
	return e.weight
}

// MonthsDormant returns the elapsed months since the last application,
// never negative.
func (e *Engine) MonthsDormant(lastApplication time.Time) float64 {
	if lastApplication.IsZero() {
		return 0
	}
	days := e.now().Sub(lastApplication).Hours() / 24
	if days < 0 {
		return 0
	}
	return days / daysPerMonth
}

// Score maps months dormant to the evolution bonus:
// min(months/capMonths, 1.0) * maxBonus. Monotone non-decreasing, capped.
func (e *Engine) Score(monthsDormant float64) float64 {
	if monthsDormant < 0 {
		monthsDormant = 0
	}
	ramp := monthsDormant / e.capMonths
	if ramp > 1.0 {
		ramp = 1.0
	}
	return ramp * e.maxBonus
}

// Record builds the evolution record for a dormant candidate scored against
// a job. The narrative is templated and deterministic for identical inputs.
func (e *Engine) Record(c *model.Candidate, j *model.Job, baseTotal float64) model.EvolutionRecord {
	months := e.MonthsDormant(c.LastApplicationDate)
	score := e.Score(months)
	monthsInt := int(months)

	lastApplication := ""
	if !c.LastApplicationDate.IsZero() {
		lastApplication = c.LastApplicationDate.Format(model.DateLayout)
	}

	return model.EvolutionRecord{
		MonthsDormant:      monthsInt,
		EvolutionScore:     score,
		TotalWithEvolution: baseTotal + e.weight*score,
		GrowthTier:         TierFor(monthsInt),
		Narrative:          narrative(c, j, monthsInt),
		LastApplication:    lastApplication,
	}
}

// TierFor maps months dormant to a growth tier.
func TierFor(monthsDormant int) model.GrowthTier {
	switch {
	case monthsDormant >= highTierMonths:
		return model.GrowthHigh
	case monthsDormant >= mediumTierMonths:
		return model.GrowthMedium
	case monthsDormant >= moderateTierMonths:
		return model.GrowthModerate
	default:
		return model.GrowthLow
	}
}

// narrative renders the templated evolution sentence.
func narrative(c *model.Candidate, j *model.Job, monthsDormant int) string {
	var timePhrase string
	switch {
	case monthsDormant >= highTierMonths:
		timePhrase = fmt.Sprintf("over %d years ago", monthsDormant/monthsPerYear)
	case monthsDormant >= mediumTierMonths:
		timePhrase = fmt.Sprintf("%d year ago", monthsDormant/monthsPerYear)
	default:
		timePhrase = fmt.Sprintf("%d months ago", monthsDormant)
	}

	return fmt.Sprintf(
		"%s applied %s as a %s. Given this time period, they may have gained %d year(s) of additional experience and developed new skills relevant to the %s position.",
		c.Name, timePhrase, c.CurrentTitle, monthsDormant/monthsPerYear, j.Title,
	)
}
