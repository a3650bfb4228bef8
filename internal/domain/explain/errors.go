package explain

import "errors"

// ErrInvalidBands indicates a recommendation band configuration that is
// out of range or not strictly descending.
var ErrInvalidBands = errors.New("invalid recommendation bands")
