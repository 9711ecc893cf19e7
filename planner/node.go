package planner

import "github.com/finops-validate/focuscheck/rule"

// NodeStatus discriminates how a plan node is to be handled by the
// execution engine.
type NodeStatus uint8

const (
	// Scheduled means the node carries a compiled check tree to execute.
	Scheduled NodeStatus = iota
	// SkippedNonApplicable means the rule's applicability_criteria were
	// not satisfied, or no applicable path from a root reaches it, or it
	// is a Draft rule under the default skip policy.
	SkippedNonApplicable
	// SkippedDynamic means the rule is flagged is_dynamic; data content
	// would need to be inspected to decide applicability, which this
	// engine does not do ahead of running the check itself.
	SkippedDynamic
)

// String returns the node status name.
func (s NodeStatus) String() string {
	switch s {
	case Scheduled:
		return "Scheduled"
	case SkippedNonApplicable:
		return "SkippedNonApplicable"
	case SkippedDynamic:
		return "SkippedDynamic"
	default:
		return "NodeStatus(unknown)"
	}
}

// CompiledNode is a compiled validation_criteria tree for one rule. It
// mirrors [rule.Requirement]'s shape (Leaf/And/Or/Ref) but leaf nodes
// carry ready-to-run SQL instead of a check_type name and params, and
// ref nodes carry only the referenced rule_id — the engine resolves a
// ref by looking up that rule_id's own outcome in the same run's report,
// since every rule reachable via a reference is itself a separate,
// independently scheduled plan node.
type CompiledNode struct {
	Kind rule.RequirementKind

	// Leaf fields.
	SQL       string
	CheckType string
	ColumnID  string

	// And/Or fields, in source order.
	Children []CompiledNode

	// Ref field.
	RefRuleID string
}

// Node is one rule's position in a [Plan].
type Node struct {
	RuleID string
	Status NodeStatus

	// Reason explains a Skipped status for diagnostics and reporting
	// (e.g. "draft", "applicability_criteria not satisfied").
	Reason string

	// Root is the compiled validation_criteria tree. Valid only when
	// Status == Scheduled.
	Root CompiledNode

	// MustSatisfy carries the rule's own field through to the engine,
	// which uses it as the ErrorMessage of a Fail outcome that has no
	// generator-supplied message.
	MustSatisfy string

	// CheckType is the rule's own declared check_type (a leaf check name,
	// or "composite_and"/"composite_or"/"model_rule_reference" for a
	// structural root), carried through regardless of Status so a node
	// skipped before compilation can still be described — by explain, for
	// instance — without needing the original catalog rule.
	CheckType string
}
