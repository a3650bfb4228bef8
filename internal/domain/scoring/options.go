package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithNeutralSkillsScore sets the score returned for jobs without required
// skills.
func WithNeutralSkillsScore(score float64) Option {
	return func(s *Scorer) {
		if score >= 0 && score <= 1 {
			s.neutralSkillsScore = score
		}
	}
}

// WithExperiencePenalties sets the per-year penalty rates and caps for
// candidates outside the required range.
func WithExperiencePenalties(juniorRate, juniorCap, seniorRate, seniorCap float64) Option {
	return func(s *Scorer) {
		if juniorRate > 0 && juniorCap > 0 {
			s.juniorPenaltyRate = juniorRate
			s.juniorPenaltyCap = juniorCap
		}
		if seniorRate > 0 && seniorCap > 0 {
			s.seniorPenaltyRate = seniorRate
			s.seniorPenaltyCap = seniorCap
		}
	}
}

// WithLocationTiers sets the remote-compatible and mismatch tier scores.
func WithLocationTiers(remote, mismatch float64) Option {
	return func(s *Scorer) {
		if remote >= 0 && remote <= 1 {
			s.remoteTierScore = remote
		}
		if mismatch >= 0 && mismatch <= 1 {
			s.mismatchTierScore = mismatch
		}
	}
}
