package embedding

import "errors"

// Sentinel kinds for embedding errors.
var (
	ErrBadVector = errors.New("bad embedding vector")
	ErrUpstream  = errors.New("embedding upstream failure")
)
