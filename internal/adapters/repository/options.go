package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithDormancyThreshold sets how long without an application makes a
// candidate dormant. Non-positive values keep the default.
func WithDormancyThreshold(d time.Duration) Option {
	return func(s *MemStore) {
		if d > 0 {
			s.dormancyThreshold = d
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}
