package engine

import (
	"log/slog"
	"time"
)

// Option configures Run.
type Option func(*config)

type config struct {
	parallelism int
	deadline    time.Duration
	logger      *slog.Logger
}

// WithParallelism bounds the number of checks executed concurrently
// within a single layer. The default is 1 (strictly sequential).
// Parallelism never changes outcome identity, only wall-clock time:
// layers still execute in strict order, and a layer's checks are
// mutually independent by construction (Kahn's algorithm only groups
// zero-in-degree nodes together).
func WithParallelism(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.parallelism = n
		}
	}
}

// WithDeadline bounds total run time. On expiry, in-flight checks are
// left to finish or be terminated by the query engine's own context
// handling; every rule not yet started is recorded as SKIPPED_UPSTREAM
// with Reason "cancelled" (the ABORTED subvariant).
func WithDeadline(d time.Duration) Option {
	return func(cfg *config) {
		cfg.deadline = d
	}
}

// WithLogger enables structured debug logging via internal/trace: each
// Run call is traced as one operation, tagged with the run ID, layer count
// and parallelism, and ending with the failed layer's index when a fatal
// error stops the run. Individual layers and checks are not logged. Pass
// nil (the default) to disable logging entirely.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
