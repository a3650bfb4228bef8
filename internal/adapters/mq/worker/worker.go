// Package worker defines worker contracts for asynchronous application
// ingest.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/pkg/logger"
	"github.com/okian/rematch/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Submission abstracts what workers read off the queue.
// Using the model.Application type for consistency.
type Submission = model.Application

// Recorder persists one application.
type Recorder interface {
	RecordApplication(ctx context.Context, a model.Application) error
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Submission
}

// Worker processes queued applications using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining submissions before stopping.
	Shutdown(ctx context.Context) error
}

// IngestWorker implements Worker for persisting applications.
type IngestWorker struct {
	queue    Queue
	recorder Recorder
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewIngestWorker creates a new worker with configuration options.
func NewIngestWorker(queue Queue, recorder Recorder, opts ...Option) *IngestWorker {
	w := &IngestWorker{
		queue:    queue,
		recorder: recorder,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *IngestWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	submissions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-submissions:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "error processing application", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *IngestWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process persists a single application.
func (w *IngestWorker) process(ctx context.Context, s Submission) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	if err := w.recorder.RecordApplication(ctx, s); err != nil {
		metrics.RecordIngestError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "record_error")
		w.logger.Error(ctx, "recording application failed",
			logger.String("candidateID", s.CandidateID),
			logger.String("jobID", s.JobID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to record application %s: %w", s.Key(), err)
	}

	metrics.RecordApplicationIngested()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*IngestWorker
	queue    Queue
	recorder Recorder

	// Shutdown control
	shutdown chan struct{}
	stopOnce sync.Once

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*IngestWorker, workerCount),
		queue:    queue,
		recorder: recorder,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewIngestWorker(
			queue,
			recorder,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	p.signalShutdown()

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// signalShutdown closes the pool and per-worker shutdown channels once.
func (p *Pool) signalShutdown() {
	p.stopOnce.Do(func() {
		close(p.shutdown)
		for _, worker := range p.workers {
			close(worker.shutdown)
		}
	})
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new submissions
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Signal shutdown to all workers
	p.signalShutdown()

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
