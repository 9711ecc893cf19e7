package planner

import (
	"sort"
	"strconv"

	"github.com/finops-validate/focuscheck/depgraph"
	"github.com/finops-validate/focuscheck/diag"
)

// layerRuleIDs runs Kahn's algorithm over g, emitting one whole layer per
// round: every rule_id with zero remaining in-degree at the start of a
// round forms that round's layer, sorted lexicographically for
// deterministic output. This differs from a textbook single-node-at-a-time
// Kahn's walk only in batching — every node in a layer is, by
// construction, independent of every other node in the same layer, so
// the execution engine is free to run a layer's checks concurrently.
//
// g must already be confirmed acyclic by depgraph.Build; if nodes remain
// after in-degree reaches zero everywhere it can, that is an internal
// inconsistency (the graph was not actually acyclic) and is reported via
// E_UNRESOLVED_BLOCKER rather than silently dropping rules from the plan.
func layerRuleIDs(g *depgraph.Graph, collector *diag.Collector) [][]string {
	ids := g.RuleIDs()
	inDegree := make(map[string]int, len(ids))
	for _, id := range ids {
		inDegree[id] = g.InDegree(id)
	}

	remaining := len(ids)
	var layers [][]string

	for remaining > 0 {
		var layer []string
		for _, id := range ids {
			if inDegree[id] == 0 {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			break
		}
		sort.Strings(layer)

		// -1 marks a node as already emitted so it is never re-selected.
		// A node in this round's layer by definition has no unemitted
		// parent, so every child touched below still has positive
		// in-degree going in.
		for _, id := range layer {
			inDegree[id] = -1
		}
		for _, id := range layer {
			for _, edge := range g.Children(id) {
				inDegree[edge.Child]--
			}
		}

		layers = append(layers, layer)
		remaining -= len(layer)
	}

	if remaining > 0 {
		var blocked []string
		for _, id := range ids {
			if inDegree[id] >= 0 {
				blocked = append(blocked, id)
			}
		}
		sort.Strings(blocked)
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_UNRESOLVED_BLOCKER,
			"planner could not resolve a topological order for the remaining rules").
			WithDetail(diag.DetailKeyBlockerCount, strconv.Itoa(len(blocked))).
			Build())
	}

	return layers
}
