package depgraph

import "log/slog"

// BuildOption configures Build's observability behavior.
type BuildOption func(*buildConfig)

type buildConfig struct {
	logger *slog.Logger
}

// WithLogger enables structured debug logging of Build via
// internal/trace: each call is traced as one operation ending with the
// node count; closure expansion, cycle detection and condition
// propagation are not logged separately. Pass nil (the default) to
// disable logging entirely.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(cfg *buildConfig) {
		cfg.logger = logger
	}
}
