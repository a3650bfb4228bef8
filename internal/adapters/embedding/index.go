package embedding

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryIndex is a brute-force cosine similarity index. Vectors are stored
// as given; with unit vectors from the embedder, the dot product is the
// cosine similarity. Similarities are clamped to [0, 1] so downstream
// weighted aggregation never sees negative semantic scores.
type MemoryIndex struct {
	mu      sync.RWMutex
	vectors map[string]Vector
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		vectors: make(map[string]Vector),
	}
}

// Upsert stores or replaces the vector for a candidate.
func (x *MemoryIndex) Upsert(ctx context.Context, candidateID string, v Vector) error {
	if candidateID == "" || len(v) == 0 {
		return fmt.Errorf("%w: empty candidate ID or vector", ErrBadVector)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectors[candidateID] = v
	return nil
}

// Remove drops a candidate from the index.
func (x *MemoryIndex) Remove(ctx context.Context, candidateID string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.vectors, candidateID)
}

// Search returns up to limit hits ordered by similarity desc, candidate ID
// asc on ties.
func (x *MemoryIndex) Search(ctx context.Context, query Vector, limit int) ([]Hit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", ErrBadVector)
	}

	x.mu.RLock()
	hits := make([]Hit, 0, len(x.vectors))
	for id, v := range x.vectors {
		if len(v) != len(query) {
			x.mu.RUnlock()
			return nil, fmt.Errorf("%w: dimension mismatch for candidate %s", ErrBadVector, id)
		}
		hits = append(hits, Hit{CandidateID: id, Similarity: clamp01(dot(query, v))})
	}
	x.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].CandidateID < hits[j].CandidateID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Size returns the number of indexed candidates.
func (x *MemoryIndex) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

func dot(a, b Vector) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
