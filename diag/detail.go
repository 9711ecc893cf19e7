package diag

// Detail provides key-value context for diagnostic issues.
//
// Details are used to add structured information to issues that can be
// programmatically inspected by tools. Use the standard detail key constants
// to ensure consistent key naming across the codebase.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys for consistent diagnostic metadata.
//
// Use these constants to avoid stringly-typed drift and enable programmatic
// inspection of diagnostic details. Custom detail keys are permitted for
// domain-specific diagnostics; use lower_snake_case for custom keys.
const (
	// DetailKeyRuleID is the rule_id involved in the diagnostic.
	DetailKeyRuleID = "rule_id"

	// DetailKeyColumnID is the FOCUS column id a rule pertains to.
	DetailKeyColumnID = "column_id"

	// DetailKeyCheckType is the check_type discriminant.
	DetailKeyCheckType = "check_type"

	// DetailKeyParam is the validation_criteria parameter name.
	DetailKeyParam = "param"

	// DetailKeyIdentifier is the raw identifier that failed
	// `[A-Za-z_][A-Za-z0-9_]*` validation (E_INVALID_IDENTIFIER).
	DetailKeyIdentifier = "identifier"

	// DetailKeyCycle is the cycle participants, in traversal order, as a
	// JSON array of rule_ids (E_CYCLE_DETECTED).
	DetailKeyCycle = "cycle"

	// DetailKeyCycleGraph is a DOT-language dump of the cycle's edges, for
	// pasting into a graphviz renderer while debugging a catalog that
	// failed to resolve (E_CYCLE_DETECTED).
	DetailKeyCycleGraph = "cycle_graph"

	// DetailKeyReferencedBy is the rule_id whose validation_criteria named a
	// dangling reference (E_DANGLING_REFERENCE).
	DetailKeyReferencedBy = "referenced_by"

	// DetailKeyStatus is the rule's raw status string (E_INVALID_STATUS).
	DetailKeyStatus = "status"

	// DetailKeyBlockerCount is the count of nodes Kahn's algorithm left
	// unresolved (E_UNRESOLVED_BLOCKER).
	DetailKeyBlockerCount = "blocker_count"

	// DetailKeyExpected is the expected value of an "expected X, got Y"
	// diagnostic.
	DetailKeyExpected = "expected"

	// DetailKeyGot is the actual value of an "expected X, got Y" diagnostic.
	DetailKeyGot = "got"
)

// ExpectedGot creates a pair of details for "expected X, got Y" diagnostics.
func ExpectedGot(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpected, Value: expected},
		{Key: DetailKeyGot, Value: got},
	}
}

// RuleAndParam creates detail entries for a rule_id + missing-parameter
// diagnostic (E_MISSING_REQUIRED_PARAM).
func RuleAndParam(ruleID, param string) []Detail {
	return []Detail{
		{Key: DetailKeyRuleID, Value: ruleID},
		{Key: DetailKeyParam, Value: param},
	}
}

// RuleAndCheckType creates detail entries for a rule_id + check_type
// diagnostic (E_UNKNOWN_CHECK_TYPE).
func RuleAndCheckType(ruleID, checkType string) []Detail {
	return []Detail{
		{Key: DetailKeyRuleID, Value: ruleID},
		{Key: DetailKeyCheckType, Value: checkType},
	}
}
