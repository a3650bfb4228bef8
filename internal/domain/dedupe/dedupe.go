// Package dedupe provides idempotency tracking for application ingest.
// Keys are the candidate/job pair of an application, so resubmitting the
// same application is detected before it ever reaches the queue.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// defaultMaxSize bounds the tracker when no option overrides it.
const defaultMaxSize = 50000

// Deduper records seen application keys to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key, allowing it to be retried. Used when an
	// application was marked as seen but could not be enqueued.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// ringDeduper implements Deduper with a map plus a fixed-size ring of keys
// in insertion order. When the ring is full the oldest key is evicted, so
// recent applications stay deduplicated while ancient ones age out. The map
// value is the key's ring slot, so eviction only removes a key whose live
// copy occupies the slot being reclaimed. With maxSize <= 0 the ring is
// disabled and keys are kept forever.
type ringDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // key -> ring slot, -1 when unbounded
	ring    []string
	next    int // ring slot the next insert will claim
	maxSize int
	size    atomic.Int64
}

// NewRingDeduper creates a deduper with configuration options.
func NewRingDeduper(opts ...Option) Deduper {
	d := &ringDeduper{
		maxSize: defaultMaxSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}

	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *ringDeduper) SeenAndRecord(ctx context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}

	slot := -1
	if d.maxSize > 0 {
		// Evict whatever occupies the slot we are about to claim.
		if old := d.ring[d.next]; old != "" {
			if s, exists := d.seen[old]; exists && s == d.next {
				delete(d.seen, old)
				d.size.Add(-1)
			}
		}
		slot = d.next
		d.ring[d.next] = key
		d.next = (d.next + 1) % d.maxSize
	}

	d.seen[key] = slot
	d.size.Add(1)
	return false
}

// Unrecord removes a key so the same application can be submitted again.
// Its ring slot is cleared too, otherwise a stale copy would later evict
// the key's re-recorded entry.
func (d *ringDeduper) Unrecord(ctx context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, exists := d.seen[key]
	if !exists {
		return
	}
	if slot >= 0 && d.ring[slot] == key {
		d.ring[slot] = ""
	}
	delete(d.seen, key)
	d.size.Add(-1)
}

// Size returns the current number of tracked keys.
func (d *ringDeduper) Size() int64 {
	return d.size.Load()
}
