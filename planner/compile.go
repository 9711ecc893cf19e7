package planner

import (
	"github.com/finops-validate/focuscheck/checks"
	"github.com/finops-validate/focuscheck/diag"
	"github.com/finops-validate/focuscheck/rule"
)

// compileRule compiles r's validation_criteria tree into a CompiledNode,
// using inherited as the starting row condition for every leaf reached
// without crossing a rule reference. inherited is the rule's own
// CompiledRowCondition — ancestor conditions already conjoined with r's
// own row_condition by depgraph — and is passed unchanged to every leaf
// under the tree regardless of AND/OR nesting within this single rule:
// the AND/OR propagation boundary only governs whether a row condition
// continues into a *different* rule reached by reference, which depgraph
// has already resolved per edge. A model_rule_reference node carries no
// SQL of its own; the engine resolves it against the same run's report.
func compileRule(r *rule.Rule, inherited string, collector *diag.Collector) CompiledNode {
	return compileRequirement(r.RuleID, r.ValidationCriteria, inherited, collector)
}

func compileRequirement(ruleID string, req rule.Requirement, inherited string, collector *diag.Collector) CompiledNode {
	switch req.Kind() {
	case rule.KindLeaf:
		leaf := req.(rule.LeafRequirement)
		return compileLeaf(ruleID, leaf, inherited, collector)

	case rule.KindRef:
		ref := req.(rule.RefRequirement)
		return CompiledNode{Kind: rule.KindRef, RefRuleID: ref.RuleID}

	case rule.KindAnd:
		and := req.(rule.AndRequirement)
		children := make([]CompiledNode, len(and.Children))
		for i, c := range and.Children {
			children[i] = compileRequirement(ruleID, c, inherited, collector)
		}
		return CompiledNode{Kind: rule.KindAnd, Children: children}

	case rule.KindOr:
		or := req.(rule.OrRequirement)
		children := make([]CompiledNode, len(or.Children))
		for i, c := range or.Children {
			children[i] = compileRequirement(ruleID, c, inherited, collector)
		}
		return CompiledNode{Kind: rule.KindOr, Children: children}

	default:
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_MALFORMED_REQUIREMENT,
			"validation_criteria contains an unrecognized requirement kind").
			WithDetail(diag.DetailKeyRuleID, ruleID).
			Build())
		return CompiledNode{}
	}
}

// compileLeaf invokes the check generator registry. A lookup or
// parameter-validation failure here indicates a rule bypassed catalog
// load-time validation (which is expected to reject an unknown
// check_type or a missing required parameter before a rule ever reaches
// the planner); it is reported defensively rather than assumed
// impossible.
func compileLeaf(ruleID string, leaf rule.LeafRequirement, inherited string, collector *diag.Collector) CompiledNode {
	gen, ok := checks.Lookup(leaf.CheckType)
	if !ok {
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_UNKNOWN_CHECK_TYPE,
			"planner encountered an unregistered check_type").
			WithDetails(diag.RuleAndCheckType(ruleID, leaf.CheckType)...).
			Build())
		return CompiledNode{Kind: rule.KindLeaf, CheckType: leaf.CheckType}
	}

	params, err := checks.ValidateParams(gen, leaf.Params)
	if err != nil {
		param := ""
		if missing, ok := err.(*checks.ErrMissingRequiredParam); ok {
			param = missing.Param
		}
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_MISSING_REQUIRED_PARAM,
			err.Error()).
			WithDetails(diag.RuleAndParam(ruleID, param)...).
			Build())
		return CompiledNode{Kind: rule.KindLeaf, CheckType: leaf.CheckType}
	}

	sql, err := gen.GenerateSQL(params, inherited)
	if err != nil {
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_INVALID_IDENTIFIER,
			err.Error()).
			WithDetails(diag.RuleAndCheckType(ruleID, leaf.CheckType)...).
			Build())
		return CompiledNode{Kind: rule.KindLeaf, CheckType: leaf.CheckType}
	}

	return CompiledNode{Kind: rule.KindLeaf, SQL: sql, CheckType: leaf.CheckType}
}
