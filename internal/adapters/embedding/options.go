package embedding

import (
	"math/rand"
	"time"
)

// EmbedderOption applies a configuration option to the HashEmbedder.
type EmbedderOption func(*HashEmbedder)

// WithDimensions sets the embedding dimensionality.
func WithDimensions(n int) EmbedderOption {
	return func(e *HashEmbedder) {
		if n > 0 {
			e.dimensions = n
		}
	}
}

// WithSimulatedLatency makes each Embed call sleep between min and max,
// mimicking a remote model call. Zero max disables the delay.
func WithSimulatedLatency(min, max time.Duration) EmbedderOption {
	return func(e *HashEmbedder) {
		e.minLatency = min
		e.maxLatency = max
	}
}

// WithSeed makes the latency jitter reproducible.
func WithSeed(seed int64) EmbedderOption {
	return func(e *HashEmbedder) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}
