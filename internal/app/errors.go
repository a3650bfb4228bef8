package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrQueueFull signals ingest backpressure; callers should retry later.
	ErrQueueFull = errors.New("application queue full")
)
