package engine

import (
	"context"
	"strings"

	"github.com/finops-validate/focuscheck/checks"
	"github.com/finops-validate/focuscheck/planner"
	"github.com/finops-validate/focuscheck/report"
	"github.com/finops-validate/focuscheck/rule"
)

// evaluate runs a scheduled rule's compiled check tree and returns its
// outcome record. Every rule reachable from node.Root via a reference
// (planner.CompiledNode with Kind == rule.KindRef) is guaranteed, by the
// plan's topological layering, to already have a record in rep.
func evaluate(ctx context.Context, table TableHandle, rep *report.Builder, node planner.CompiledNode) report.Record {
	if err := ctx.Err(); err != nil {
		return report.Record{Status: report.SkippedUpstream, Reason: "cancelled"}
	}

	switch node.Kind {
	case rule.KindLeaf:
		return evaluateLeaf(ctx, table, node)
	case rule.KindRef:
		return evaluateRef(rep, node)
	case rule.KindAnd:
		return evaluateAnd(ctx, table, rep, node)
	case rule.KindOr:
		return evaluateOr(ctx, table, rep, node)
	default:
		return report.Record{Status: report.Fail, ErrorMessage: "unrecognized compiled node kind"}
	}
}

func evaluateLeaf(ctx context.Context, table TableHandle, node planner.CompiledNode) report.Record {
	sql := strings.ReplaceAll(node.SQL, checks.TableNamePlaceholder, table.TableName())

	violations, errorMessage, err := table.ExecuteCheck(ctx, sql)
	if err != nil {
		if cols := extractMissingColumns(err.Error()); len(cols) > 0 {
			return report.Record{
				Status:       report.Fail,
				ErrorMessage: "missing column(s): " + strings.Join(cols, ", "),
			}
		}
		// Any other error class (syntax, type mismatch, resource
		// exhaustion) is fatal to the run; runNode turns this record into
		// a *RunError rather than recording an outcome for this rule.
		return report.Record{Status: report.Fail, ErrorMessage: err.Error(), Reason: "fatal_query_error"}
	}

	if violations > 0 {
		// errorMessage is whatever the generated SQL's own error_message
		// column produced; most generators leave it NULL, and runNode
		// fills the gap from the rule's must_satisfy text instead.
		return report.Record{Status: report.Fail, Violations: violations, ErrorMessage: errorMessage}
	}
	return report.Record{Status: report.Pass}
}

// evaluateRef resolves a rule reference purely by looking up the
// referenced rule_id's own already-recorded outcome. A PASS passes
// through; anything else yields SKIPPED_UPSTREAM rather than copying
// the referenced outcome's own status, since evaluating this rule's own
// semantics on top of a referenced rule that did not PASS is
// meaningless — see DESIGN.md for why this, not direct boolean
// aggregation, is how a bare reference differs from an AND/OR composite
// whose children happen to include a reference.
func evaluateRef(rep *report.Builder, node planner.CompiledNode) report.Record {
	target, ok := rep.Get(node.RefRuleID)
	if !ok {
		return report.Record{Status: report.Fail, ErrorMessage: "referenced rule " + node.RefRuleID + " has no recorded outcome"}
	}
	if target.Status == report.Pass {
		return report.Record{Status: report.Pass, Violations: target.Violations}
	}
	return report.Record{
		Status: report.SkippedUpstream,
		Reason: "referenced rule " + node.RefRuleID + " did not pass (status=" + target.Status.String() + ")",
	}
}

// evaluateAnd passes iff every child's resolved outcome satisfies
// AND (PASS or SKIPPED_NON_APPLICABLE); any other combination, including
// a FAIL or a SKIPPED_DYNAMIC/SKIPPED_UPSTREAM child, fails the
// composite.
func evaluateAnd(ctx context.Context, table TableHandle, rep *report.Builder, node planner.CompiledNode) report.Record {
	var totalViolations int64
	allSatisfied := true
	for _, child := range node.Children {
		rec := evaluate(ctx, table, rep, child)
		totalViolations += rec.Violations
		if !rec.Status.Satisfied() {
			allSatisfied = false
		}
	}
	if allSatisfied {
		return report.Record{Status: report.Pass}
	}
	return report.Record{Status: report.Fail, Violations: totalViolations}
}

// evaluateOr passes iff at least one child resolves to PASS.
func evaluateOr(ctx context.Context, table TableHandle, rep *report.Builder, node planner.CompiledNode) report.Record {
	var totalViolations int64
	anyPass := false
	for _, child := range node.Children {
		rec := evaluate(ctx, table, rep, child)
		if rec.Status == report.Pass {
			anyPass = true
		} else {
			totalViolations += rec.Violations
		}
	}
	if anyPass {
		return report.Record{Status: report.Pass}
	}
	return report.Record{Status: report.Fail, Violations: totalViolations}
}
