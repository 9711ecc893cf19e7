package depgraph

import (
	"sort"

	"github.com/finops-validate/focuscheck/rule"
)

// Graph is the resolved dependency graph over a rule catalog closure.
// Once built, it is immutable and safe to share across goroutines.
type Graph struct {
	nodes   map[string]*rule.Rule
	forward map[string][]Edge // parent -> outgoing edges, source JSON order preserved
	reverse map[string][]string // child -> ordered parent rule_ids, insertion order
	order   []string            // rule_ids in closure, insertion order (BFS discovery)

	// inherited is the AND-accumulated row condition a rule receives from
	// its ancestors, computed by [propagateConditions]. Combine with the
	// rule's own RowCondition for its final compiled predicate.
	inherited map[string]string
}

// RuleIDs returns every rule_id in the closure, in BFS discovery order.
func (g *Graph) RuleIDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Rule returns the rule for id, or nil if id is not in the closure.
func (g *Graph) Rule(id string) *rule.Rule {
	return g.nodes[id]
}

// Children returns the outgoing edges from parent, in source order.
func (g *Graph) Children(parent string) []Edge {
	edges := g.forward[parent]
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// Parents returns the rule_ids of every rule referencing child, in
// insertion order.
func (g *Graph) Parents(child string) []string {
	parents := g.reverse[child]
	out := make([]string, len(parents))
	copy(out, parents)
	return out
}

// InDegree returns the number of distinct edges pointing at id.
func (g *Graph) InDegree(id string) int {
	return len(g.reverse[id])
}

// InheritedCondition returns the AND-accumulated row condition id
// receives from its ancestors (empty if none, or if id is a root).
func (g *Graph) InheritedCondition(id string) string {
	return g.inherited[id]
}

// CompiledRowCondition conjoins a rule's own row_condition onto whatever
// it inherited from ancestors, producing the final predicate restricting
// rows for that rule's own check. Composites do not execute SQL
// themselves, but their row_condition still flows into this computation
// for their descendants via [InheritedCondition].
func (g *Graph) CompiledRowCondition(id string) string {
	r := g.nodes[id]
	if r == nil {
		return g.inherited[id]
	}
	return conjoin(g.inherited[id], string(r.RowCondition))
}

// SortedRuleIDs returns RuleIDs in lexicographic order, used wherever the
// spec requires deterministic tie-breaking (layering, seed ordering).
func (g *Graph) SortedRuleIDs() []string {
	out := g.RuleIDs()
	sort.Strings(out)
	return out
}

func conjoin(a, b string) string {
	switch {
	case a == "" && b == "":
		return ""
	case a == "":
		return b
	case b == "":
		return a
	default:
		return "(" + a + ") AND (" + b + ")"
	}
}
