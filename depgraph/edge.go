package depgraph

// EdgeKind classifies why an edge exists between two rule_ids.
type EdgeKind uint8

const (
	// CompositeChild marks an edge whose child participates in the
	// parent's composite combiner. In this implementation every edge is
	// discovered via a [rule.RefRequirement], so CompositeChild and
	// ModelRuleReference always coincide; the field is kept distinct for
	// fidelity with the dependency-edge model and to leave room for a
	// future edge-producing mechanism that isn't itself a reference.
	CompositeChild EdgeKind = iota
	// ModelRuleReference marks an edge produced by a rule_id reference
	// inside another rule's validation_criteria.
	ModelRuleReference
)

func (k EdgeKind) String() string {
	switch k {
	case CompositeChild:
		return "composite_child"
	case ModelRuleReference:
		return "model_rule_reference"
	default:
		return "EdgeKind(unknown)"
	}
}

// Logic is the parent's combiner along an edge.
type Logic uint8

const (
	// LogicAND marks an edge reached only through AND composites from its
	// parent; the parent's row_condition conjoins into the child.
	LogicAND Logic = iota
	// LogicOR marks an edge where at least one composite between parent
	// and child (within the parent rule's own tree) was an OR; the
	// parent's row_condition does not propagate across this edge.
	LogicOR
)

func (l Logic) String() string {
	switch l {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return "Logic(unknown)"
	}
}

// Edge is a directed parent -> child dependency discovered while walking
// a rule's validation_criteria tree.
type Edge struct {
	Parent string
	Child  string
	Kind   EdgeKind
	Logic  Logic
}
