package planner

// DraftPolicy controls whether Draft-status rules are scheduled.
type DraftPolicy uint8

const (
	// SkipDrafts compiles every Draft rule straight to
	// SkippedNonApplicable. This is the default: draft rules are loaded
	// for catalog completeness but not yet enforced.
	SkipDrafts DraftPolicy = iota
	// IncludeDrafts schedules Draft rules as if they were Active.
	IncludeDrafts
)

// Plan is the layered execution order for one run: Layers[0] has no
// unresolved dependencies, Layers[1] depends only on Layers[0], and so
// on. Every rule in the resolved dependency graph appears in exactly one
// layer, whether scheduled or skipped, so the final report can key an
// outcome to every rule_id in the closure.
type Plan struct {
	Layers [][]Node
}

// RuleIDs returns every rule_id in the plan, layer order then
// lexicographic order within a layer.
func (p *Plan) RuleIDs() []string {
	var out []string
	for _, layer := range p.Layers {
		for _, n := range layer {
			out = append(out, n.RuleID)
		}
	}
	return out
}

// Node looks up a rule's plan node by id, or returns (Node{}, false) if
// absent.
func (p *Plan) Node(ruleID string) (Node, bool) {
	for _, layer := range p.Layers {
		for _, n := range layer {
			if n.RuleID == ruleID {
				return n, true
			}
		}
	}
	return Node{}, false
}
