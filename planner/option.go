package planner

import "log/slog"

// Option configures Build, following the same functional-options idiom
// used by catalog.Load, depgraph.Build and engine.Run elsewhere in this
// module.
type Option func(*config)

type config struct {
	targetPrefix  string
	applicability map[string]bool
	draftPolicy   DraftPolicy
	logger        *slog.Logger
}

// WithTargetPrefix restricts the plan to the transitive closure of
// rule_ids matching prefix (see depgraph.Build); the default, an empty
// prefix, plans the entire catalog.
func WithTargetPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.targetPrefix = prefix
	}
}

// WithApplicability supplies the dataset-global applicability token set.
// Tokens absent from the map are treated as not present. The default is
// an empty set, under which only rules with empty applicability_criteria
// are applicable.
func WithApplicability(tokens map[string]bool) Option {
	return func(cfg *config) {
		cfg.applicability = tokens
	}
}

// WithDraftPolicy overrides the default SkipDrafts policy.
func WithDraftPolicy(p DraftPolicy) Option {
	return func(cfg *config) {
		cfg.draftPolicy = p
	}
}

// WithLogger enables structured debug logging via internal/trace: each
// Build call is traced as one operation ending with the layer count, and
// the logger is passed on to depgraph.Build. Applicability marking,
// layering and compilation are not logged separately. Pass nil (the
// default) to disable logging entirely.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
