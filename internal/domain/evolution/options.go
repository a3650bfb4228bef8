package evolution

import "time"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithEvolutionWeight sets the weight scaling the bonus onto the base total.
func WithEvolutionWeight(weight float64) Option {
	return func(e *Engine) {
		if weight >= 0 {
			e.weight = weight
		}
	}
}

// WithCap sets the ramp length in months and the maximum bonus.
func WithCap(capMonths, maxBonus float64) Option {
	return func(e *Engine) {
		if capMonths > 0 {
			e.capMonths = capMonths
		}
		if maxBonus >= 0 {
			e.maxBonus = maxBonus
		}
	}
}

// WithClock sets the time source. Used by tests for deterministic dormancy.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
