// Package embedding provides the semantic similarity collaborators of the
// matcher: an embedder that turns profile or posting text into a vector,
// and an index that answers nearest-neighbor queries over candidate
// vectors. The in-memory implementations stand in for an external
// embedding service and vector database.
package embedding

import "context"

// Vector is a dense embedding.
type Vector []float64

// Hit is one index search result.
type Hit struct {
	CandidateID string
	Similarity  float64
}

// Embedder turns free text into a vector.
type Embedder interface {
	// Embed returns the vector for one text. A failure here aborts the
	// whole matching call; there is no degraded scoring mode.
	Embed(ctx context.Context, text string) (Vector, error)
}

// Index answers similarity queries over stored candidate vectors.
type Index interface {
	// Upsert stores or replaces the vector for a candidate.
	Upsert(ctx context.Context, candidateID string, v Vector) error
	// Remove drops a candidate from the index. Unknown IDs are a no-op.
	Remove(ctx context.Context, candidateID string)
	// Search returns up to limit hits ordered by similarity desc, ties
	// broken by candidate ID asc. limit <= 0 returns every entry.
	Search(ctx context.Context, query Vector, limit int) ([]Hit, error)
	// Size returns the number of indexed candidates.
	Size() int
}
