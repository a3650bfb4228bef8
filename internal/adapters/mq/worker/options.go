// Package worker defines worker contracts for asynchronous application
// ingest.
package worker

import (
	"github.com/okian/rematch/pkg/logger"
)

// Option applies a configuration option to the IngestWorker.
type Option func(*IngestWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *IngestWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *IngestWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
