package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrJobNotFound       = errors.New("job not found")
)
