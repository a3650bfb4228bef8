package model

import "errors"

// Sentinel kinds for record validation.
var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidFilter = errors.New("invalid filter")
)
