package planner

import (
	"context"
	"log/slog"

	"github.com/finops-validate/focuscheck/depgraph"
	"github.com/finops-validate/focuscheck/diag"
	"github.com/finops-validate/focuscheck/internal/trace"
	"github.com/finops-validate/focuscheck/rule"
)

// Build resolves rules into a dependency graph and compiles a layered
// Plan from it, applying the options given.
//
// Build internally runs depgraph.Build; a fatal issue there (dangling
// reference, dependency cycle) is surfaced unchanged in the returned
// diag.Result and no Plan is produced.
func Build(rules []*rule.Rule, opts ...Option) (*Plan, diag.Result) {
	cfg := &config{draftPolicy: SkipDrafts}
	for _, opt := range opts {
		opt(cfg)
	}

	op := trace.Begin(context.Background(), cfg.logger, "focuscheck.planner.build",
		slog.String("target_prefix", cfg.targetPrefix), slog.Int("catalog_size", len(rules)))

	var depOpts []depgraph.BuildOption
	if cfg.logger != nil {
		depOpts = append(depOpts, depgraph.WithLogger(cfg.logger))
	}
	g, depResult := depgraph.Build(rules, cfg.targetPrefix, depOpts...)

	collector := diag.NewCollectorUnlimited()
	collector.Merge(depResult)
	if collector.HasFatal() {
		op.End(nil, slog.Bool("fatal", true))
		return nil, collector.Result()
	}

	applicable := markApplicable(g, cfg.applicability)
	layerIDs := layerRuleIDs(g, collector)
	if collector.HasFatal() {
		op.End(nil, slog.Bool("fatal", true))
		return nil, collector.Result()
	}

	plan := &Plan{Layers: make([][]Node, len(layerIDs))}
	for i, ids := range layerIDs {
		layer := make([]Node, len(ids))
		for j, id := range ids {
			layer[j] = buildNode(g, id, applicable[id], cfg.draftPolicy, collector)
		}
		plan.Layers[i] = layer
	}

	op.End(nil, slog.Int("layer_count", len(plan.Layers)))
	return plan, collector.Result()
}

func buildNode(g *depgraph.Graph, id string, applicable bool, draftPolicy DraftPolicy, collector *diag.Collector) Node {
	r := g.Rule(id)

	if r.Status == rule.Draft && draftPolicy == SkipDrafts {
		return Node{RuleID: id, Status: SkippedNonApplicable, Reason: "draft rule skipped by default policy", MustSatisfy: r.MustSatisfy, CheckType: r.CheckType}
	}
	if !applicable {
		return Node{RuleID: id, Status: SkippedNonApplicable, Reason: "applicability_criteria not satisfied", MustSatisfy: r.MustSatisfy, CheckType: r.CheckType}
	}
	if r.IsDynamic {
		return Node{RuleID: id, Status: SkippedDynamic, Reason: "rule requires data-content inspection not performed ahead of execution", MustSatisfy: r.MustSatisfy, CheckType: r.CheckType}
	}

	inherited := g.CompiledRowCondition(id)
	root := compileRule(r, inherited, collector)
	return Node{RuleID: id, Status: Scheduled, Root: root, MustSatisfy: r.MustSatisfy, CheckType: r.CheckType}
}
