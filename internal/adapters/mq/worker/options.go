// Package worker defines the pool that computes profiles concurrently.
package worker

import (
	"github.com/okian/edgeline/pkg/logger"
)

// Option applies a configuration option to the BuildWorker.
type Option func(*BuildWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *BuildWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *BuildWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
