// Package explain renders a compiled [planner.Plan] into a human- and
// tool-readable description of every rule's disposition, entirely
// offline: no [engine.TableHandle] is consulted and no SQL executes.
// It exists for catalog authors and operators who want to understand
// what a plan would do before — or instead of — running it.
package explain

import (
	"sort"

	"github.com/finops-validate/focuscheck/checks"
	"github.com/finops-validate/focuscheck/planner"
	"github.com/finops-validate/focuscheck/rule"
)

// RuleExplanation describes one rule's plan node.
type RuleExplanation struct {
	RuleID string

	// Type is the node's scheduling disposition: "Scheduled",
	// "SkippedNonApplicable", or "SkippedDynamic".
	Type string

	// CheckKind is the rule's own declared check_type: a leaf check name
	// (e.g. "value_not_null"), or one of "composite_and", "composite_or",
	// "model_rule_reference" for a structural rule.
	CheckKind string

	// GeneratorName names the registered check generator CheckKind
	// resolves to. Empty for a structural CheckKind, since composites and
	// references have no generator of their own.
	GeneratorName string

	MustSatisfy string

	// ChildrenEdges lists the rule_ids this rule's compiled requirement
	// tree reaches by reference, in the order discovered by a depth-first
	// walk of the tree. Empty for a leaf check_kind, and for any node
	// whose tree was never compiled (a non-Scheduled node).
	ChildrenEdges []string

	// SQL is the compiled query for a single leaf requirement. Empty
	// unless the rule's entire validation_criteria is one leaf check
	// (CheckKind names a registered generator and the compiled tree has
	// no AND/OR/ref structure above it).
	SQL string
}

// Explain walks plan offline and returns one RuleExplanation per rule,
// sorted lexicographically by rule_id. The result is deterministic:
// calling Explain twice on the same plan yields identical output, and
// the plan itself is never mutated.
func Explain(plan *planner.Plan) []RuleExplanation {
	ids := plan.RuleIDs()
	sort.Strings(ids)

	out := make([]RuleExplanation, 0, len(ids))
	for _, id := range ids {
		node, ok := plan.Node(id)
		if !ok {
			continue
		}
		out = append(out, explainNode(node))
	}
	return out
}

func explainNode(node planner.Node) RuleExplanation {
	ex := RuleExplanation{
		RuleID:      node.RuleID,
		Type:        node.Status.String(),
		CheckKind:   node.CheckType,
		MustSatisfy: node.MustSatisfy,
	}

	if _, ok := checks.Lookup(node.CheckType); ok {
		ex.GeneratorName = node.CheckType
	}

	if node.Status != planner.Scheduled {
		return ex
	}

	ex.ChildrenEdges = collectRefs(node.Root)
	if node.Root.Kind == rule.KindLeaf {
		ex.SQL = node.Root.SQL
	}
	return ex
}

// collectRefs walks a compiled requirement tree depth-first, collecting
// every referenced rule_id in the order its ref node is encountered.
// Sibling order is preserved (AND/OR children compile in source order),
// so the result is stable across calls on the same plan.
func collectRefs(node planner.CompiledNode) []string {
	switch node.Kind {
	case rule.KindRef:
		return []string{node.RefRuleID}
	case rule.KindAnd, rule.KindOr:
		var out []string
		for _, child := range node.Children {
			out = append(out, collectRefs(child)...)
		}
		return out
	default:
		return nil
	}
}
