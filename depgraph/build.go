package depgraph

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/finops-validate/focuscheck/diag"
	"github.com/finops-validate/focuscheck/internal/trace"
	"github.com/finops-validate/focuscheck/rule"
)

// Build resolves the dependency graph for a catalog closure.
//
// targetPrefix, if non-empty, selects the seed set (every rule_id with
// that prefix); an empty targetPrefix seeds from the entire catalog.
// Build then expands the seed to its transitive closure over
// model_rule_reference edges, constructs forward/reverse adjacency,
// propagates AND-composite row conditions, and detects cycles.
//
// Returns the resolved graph and a diag.Result. Any fatal issue in the
// result (E_DANGLING_REFERENCE, E_CYCLE_DETECTED) means the returned
// graph is incomplete and must not be handed to planner.
func Build(rules []*rule.Rule, targetPrefix string, opts ...BuildOption) (*Graph, diag.Result) {
	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	op := trace.Begin(context.Background(), cfg.logger, "focuscheck.depgraph.resolve",
		slog.String("target_prefix", targetPrefix), slog.Int("catalog_size", len(rules)))

	collector := diag.NewCollectorUnlimited()

	byID := make(map[string]*rule.Rule, len(rules))
	for _, r := range rules {
		byID[r.RuleID] = r
	}

	seed := seedRuleIDs(rules, targetPrefix)

	g := &Graph{
		nodes:     make(map[string]*rule.Rule),
		forward:   make(map[string][]Edge),
		reverse:   make(map[string][]string),
		inherited: make(map[string]string),
	}

	closure(g, byID, seed, collector)
	if collector.HasFatal() {
		op.End(nil, slog.Int("node_count", len(g.order)), slog.Bool("fatal", true))
		return g, collector.Result()
	}

	propagateConditions(g)

	if cycle := g.detectCycle(); cycle != nil {
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_CYCLE_DETECTED,
			"dependency cycle detected: "+strings.Join(cycle, " -> ")).
			WithDetail(diag.DetailKeyCycle, strings.Join(cycle, ",")).
			WithDetail(diag.DetailKeyCycleGraph, cycleDOT(cycle)).
			Build())
	}

	op.End(nil, slog.Int("node_count", len(g.order)))
	return g, collector.Result()
}

// seedRuleIDs returns every rule_id matching targetPrefix, sorted for
// deterministic BFS discovery order. An empty targetPrefix selects every
// rule in the catalog.
func seedRuleIDs(rules []*rule.Rule, targetPrefix string) []string {
	var seed []string
	for _, r := range rules {
		if targetPrefix == "" || strings.HasPrefix(r.RuleID, targetPrefix) {
			seed = append(seed, r.RuleID)
		}
	}
	sort.Strings(seed)
	return seed
}

// closure performs breadth-first expansion from seed over
// model_rule_reference edges, populating the graph's nodes, forward and
// reverse adjacency. A reference naming a rule_id absent from the
// catalog raises E_DANGLING_REFERENCE and does not add a node.
func closure(g *Graph, byID map[string]*rule.Rule, seed []string, collector *diag.Collector) {
	queue := append([]string(nil), seed...)
	queued := make(map[string]bool, len(seed))
	for _, id := range seed {
		queued[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if _, already := g.nodes[id]; already {
			continue
		}
		r, ok := byID[id]
		if !ok {
			// Only reachable if a seed prefix names a nonexistent rule_id
			// directly; references are validated at the point of discovery
			// below, not here.
			continue
		}

		g.nodes[id] = r
		g.order = append(g.order, id)

		edges := walkRequirement(id, r.ValidationCriteria, true)
		g.forward[id] = edges

		for _, edge := range edges {
			if _, exists := byID[edge.Child]; !exists {
				collector.Collect(diag.NewIssue(diag.Fatal, diag.E_DANGLING_REFERENCE,
					"rule_id \""+edge.Child+"\" referenced by \""+id+"\" does not exist in the catalog").
					WithSpan(r.Span).
					WithDetail(diag.DetailKeyRuleID, edge.Child).
					WithDetail(diag.DetailKeyReferencedBy, id).
					Build())
				continue
			}
			g.reverse[edge.Child] = append(g.reverse[edge.Child], id)
			if !queued[edge.Child] {
				queued[edge.Child] = true
				queue = append(queue, edge.Child)
			}
		}
	}
}

// walkRequirement recursively discovers model_rule_reference edges
// within a single rule's validation_criteria tree. andPath tracks
// whether every composite ancestor seen so far (within this rule's own
// tree) was AND; the first OR ancestor flips every deeper edge's Logic
// to LogicOR for the remainder of that branch.
func walkRequirement(owner string, req rule.Requirement, andPath bool) []Edge {
	switch req.Kind() {
	case rule.KindLeaf:
		return nil
	case rule.KindRef:
		ref := req.(rule.RefRequirement)
		logic := LogicAND
		if !andPath {
			logic = LogicOR
		}
		return []Edge{{Parent: owner, Child: ref.RuleID, Kind: ModelRuleReference, Logic: logic}}
	case rule.KindAnd:
		and := req.(rule.AndRequirement)
		var edges []Edge
		for _, child := range and.Children {
			edges = append(edges, walkRequirement(owner, child, andPath)...)
		}
		return edges
	case rule.KindOr:
		or := req.(rule.OrRequirement)
		var edges []Edge
		for _, child := range or.Children {
			edges = append(edges, walkRequirement(owner, child, false)...)
		}
		return edges
	default:
		return nil
	}
}

// propagateConditions computes the AND-accumulated inherited row
// condition for every node reachable from a root. An edge with LogicAND
// conjoins the parent's own CompiledRowCondition into the child's
// inherited condition; an edge with LogicOR passes the parent's inherited
// condition through unchanged, without adding the parent's own
// row_condition.
//
// This relaxes every edge repeatedly, bounded by the node count, rather
// than requiring a precomputed topological order: a cyclic graph cannot
// yield a stable topological pass, and Build runs cycle detection
// immediately afterward and discards the graph on any cycle, so the
// bound only needs to guarantee convergence for the acyclic case (at
// most len(g.order) hops from any root to any node).
func propagateConditions(g *Graph) {
	for _, id := range g.order {
		g.inherited[id] = ""
	}

	passes := len(g.order) + 1
	for i := 0; i < passes; i++ {
		changed := false
		for _, parent := range g.order {
			for _, edge := range g.forward[parent] {
				var childInherited string
				if edge.Logic == LogicAND {
					childInherited = conjoin(g.inherited[parent], parentRowCondition(g, parent))
				} else {
					childInherited = g.inherited[parent]
				}
				if g.inherited[edge.Child] != childInherited && childInherited != "" {
					g.inherited[edge.Child] = childInherited
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

func parentRowCondition(g *Graph, id string) string {
	r := g.nodes[id]
	if r == nil {
		return ""
	}
	return string(r.RowCondition)
}
