package catalog

import "log/slog"

// Option configures Load.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger enables structured debug logging of Load via
// internal/trace: each call is traced as one operation tagged with the
// version and ending with the rule and file counts; individual files
// are not logged. Pass nil (the default) to disable logging entirely.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
