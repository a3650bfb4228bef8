package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/rematch/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	sub := model.Application{CandidateID: "cand-1", JobID: "job-1", AppliedAt: time.Now()}
	if !q.Enqueue(ctx, sub) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	out := q.Dequeue(ctx)
	got := <-out
	if got.Key() != sub.Key() {
		t.Errorf("expected %s, got %s", sub.Key(), got.Key())
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sub := model.Application{CandidateID: fmt.Sprintf("cand-%d", i), JobID: "job-1", AppliedAt: time.Now()}
		if !q.Enqueue(ctx, sub) {
			t.Error("expected enqueue to succeed")
		}
	}

	// Try to enqueue when full
	overflow := model.Application{CandidateID: "cand-9", JobID: "job-1", AppliedAt: time.Now()}
	if q.Enqueue(ctx, overflow) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	sub := model.Application{CandidateID: "cand-1", JobID: "job-1", AppliedAt: time.Now()}
	if !q.Enqueue(ctx, sub) {
		t.Error("expected enqueue to succeed")
	}

	if err := q.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected idempotent close, got %v", err)
	}

	if q.Enqueue(ctx, sub) {
		t.Error("expected enqueue to fail after close")
	}

	// Buffered submissions drain, then the channel closes.
	out := q.Dequeue(ctx)
	if got := <-out; got.CandidateID != "cand-1" {
		t.Errorf("expected buffered submission, got %v", got.CandidateID)
	}
	if _, ok := <-out; ok {
		t.Error("expected dequeue channel to close")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2000))
	ctx := context.Background()
	numGoroutines := 10
	numSubmissions := 100

	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numSubmissions; j++ {
				sub := model.Application{
					CandidateID: fmt.Sprintf("cand-%d-%d", id, j),
					JobID:       "job-1",
					AppliedAt:   time.Now(),
				}
				if !q.Enqueue(ctx, sub) {
					t.Errorf("enqueue failed for %s", sub.Key())
				}
			}
			done <- true
		}(i)
	}
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	if l := q.Len(ctx); l != numGoroutines*numSubmissions {
		t.Errorf("expected %d queued, got %d", numGoroutines*numSubmissions, l)
	}

	received := 0
	out := q.Dequeue(ctx)
	_ = q.Close()
	for range out {
		received++
	}
	if received != numGoroutines*numSubmissions {
		t.Errorf("expected %d received, got %d", numGoroutines*numSubmissions, received)
	}
}
