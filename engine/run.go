package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/finops-validate/focuscheck/internal/trace"
	"github.com/finops-validate/focuscheck/planner"
	"github.com/finops-validate/focuscheck/report"
)

// RunError wraps a fatal query-engine error encountered while executing
// a specific rule. The Report returned alongside it contains every
// outcome recorded before the failure; rules in later layers are left
// unrecorded.
type RunError struct {
	RuleID string
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("rule %q: fatal query-engine error: %v", e.RuleID, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Run executes plan against table, layer by layer, and returns the
// resulting Report. Layers execute in strict order (layer N completes
// before N+1 begins); within a layer, scheduled rules run concurrently
// up to the configured parallelism, since Kahn's-algorithm layering
// guarantees every node in a layer is independent of every other node in
// the same layer.
//
// A non-nil error means a leaf check's query-engine error was not
// classifiable as a recoverable missing-column condition (§4.5); the
// returned Report still holds every outcome recorded up to that point.
func Run(ctx context.Context, plan *planner.Plan, table TableHandle, opts ...Option) (*report.Report, error) {
	cfg := &config{parallelism: 1}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.deadline)
		defer cancel()
	}

	runID := uuid.New().String()
	op := trace.Begin(ctx, cfg.logger, "focuscheck.engine.run",
		slog.String("run_id", runID), slog.Int("layer_count", len(plan.Layers)), slog.Int("parallelism", cfg.parallelism))

	builder := report.NewBuilder(runID)

	for i, layer := range plan.Layers {
		if err := runLayer(ctx, table, builder, layer, cfg.parallelism); err != nil {
			op.End(err, slog.Int("failed_layer", i))
			return builder.Build(), err
		}
	}

	op.End(nil)
	return builder.Build(), nil
}

// runLayer dispatches every node in layer to a bounded worker pool and
// waits for all of them to finish before returning. Workers write
// distinct keys into builder (one per rule_id), so no additional
// synchronization beyond Builder's own mutex is needed.
func runLayer(ctx context.Context, table TableHandle, builder *report.Builder, layer []planner.Node, parallelism int) error {
	if len(layer) == 0 {
		return nil
	}

	workers := parallelism
	if workers > len(layer) {
		workers = len(layer)
	}

	nodes := make(chan planner.Node)
	errs := make(chan error, len(layer))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for node := range nodes {
				rec, err := runNode(ctx, table, builder, node)
				if err != nil {
					errs <- err
					continue
				}
				builder.Set(node.RuleID, rec)
			}
		}()
	}

	for _, node := range layer {
		nodes <- node
	}
	close(nodes)
	wg.Wait()
	close(errs)

	for err := range errs {
		return err
	}
	return nil
}

func runNode(ctx context.Context, table TableHandle, builder *report.Builder, node planner.Node) (report.Record, error) {
	switch node.Status {
	case planner.SkippedNonApplicable:
		return report.Record{Status: report.SkippedNonApplicable, Reason: node.Reason}, nil
	case planner.SkippedDynamic:
		return report.Record{Status: report.SkippedDynamic, Reason: node.Reason}, nil
	}

	if err := ctx.Err(); err != nil {
		return report.Record{Status: report.SkippedUpstream, Reason: "cancelled"}, nil
	}

	rec := evaluate(ctx, table, builder, node.Root)
	if rec.Reason == "fatal_query_error" {
		return report.Record{}, &RunError{RuleID: node.RuleID, Err: fmt.Errorf("%s", rec.ErrorMessage)}
	}
	if rec.Status == report.Fail && rec.ErrorMessage == "" {
		rec.ErrorMessage = failureMessage(node.MustSatisfy)
	}
	return rec, nil
}

// failureMessage renders the rule's own must_satisfy text as its
// human-readable diagnostic. A rule lacking must_satisfy text (the field
// is optional in a catalog document) still gets a generic message rather
// than leaving ErrorMessage empty on a Fail outcome.
func failureMessage(mustSatisfy string) string {
	if mustSatisfy == "" {
		return "check failed: one or more rows violated the rule's validation criteria"
	}
	return mustSatisfy
}
