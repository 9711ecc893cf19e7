package planner

import "github.com/finops-validate/focuscheck/depgraph"

// markApplicable computes, for every rule in g, whether it is reachable
// through an unbroken chain of satisfied applicability_criteria starting
// from a root (a node with no incoming edges).
//
// A rule's own applicability_criteria being satisfied is necessary but
// not sufficient: applicability is hierarchical, so a rule reached only
// through a non-applicable parent is itself non-applicable even if its
// own criteria would otherwise pass. A rule with multiple parents is
// applicable if at least one parent path is applicable (applicability
// propagates like a reachability relation, not like the AND-only row
// condition).
//
// This relaxes every edge repeatedly, the same way depgraph propagates
// inherited row conditions, since a rule's position relative to its
// parents in discovery order gives no guarantee all parents are resolved
// first.
func markApplicable(g *depgraph.Graph, available map[string]bool) map[string]bool {
	ids := g.RuleIDs()
	ownSatisfied := make(map[string]bool, len(ids))
	applicable := make(map[string]bool, len(ids))

	for _, id := range ids {
		r := g.Rule(id)
		ownSatisfied[id] = r.ApplicabilityCriteria.SatisfiedBy(available)
		if g.InDegree(id) == 0 {
			applicable[id] = ownSatisfied[id]
		}
	}

	passes := len(ids) + 1
	for i := 0; i < passes; i++ {
		changed := false
		for _, parent := range ids {
			if !applicable[parent] {
				continue
			}
			for _, edge := range g.Children(parent) {
				child := edge.Child
				if !applicable[child] && ownSatisfied[child] {
					applicable[child] = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return applicable
}
