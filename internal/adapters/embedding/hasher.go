package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// defaultDimensions matches the small sentence-transformer models the
// production embedder exposes.
const defaultDimensions = 384

// HashEmbedder is a deterministic stand-in for an external embedding
// service. Each token is hashed into a fixed number of dimensions with a
// sign bit, and the resulting vector is L2-normalized, so identical texts
// always produce identical vectors and token overlap raises cosine
// similarity. Optional simulated latency mimics a remote model call.
type HashEmbedder struct {
	dimensions int
	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewHashEmbedder creates a deterministic embedder with configuration
// options.
func NewHashEmbedder(opts ...EmbedderOption) *HashEmbedder {
	e := &HashEmbedder{
		dimensions: defaultDimensions,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Embed returns the vector for one text.
func (e *HashEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	if err := e.simulateLatency(ctx); err != nil {
		return nil, err
	}

	v := make(Vector, e.dimensions)
	for _, token := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		slot := int(sum % uint64(e.dimensions))
		if sum&(1<<63) != 0 {
			v[slot]--
		} else {
			v[slot]++
		}
	}
	normalize(v)
	return v, nil
}

func (e *HashEmbedder) simulateLatency(ctx context.Context) error {
	if e.maxLatency <= 0 {
		return nil
	}

	e.mu.Lock()
	delay := e.minLatency
	if jitter := e.maxLatency - e.minLatency; jitter > 0 {
		delay += time.Duration(e.rng.Int63n(int64(jitter)))
	}
	e.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

// normalize scales v to unit length in place. Zero vectors stay zero.
func normalize(v Vector) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}
