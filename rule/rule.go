package rule

import (
	"golang.org/x/text/unicode/norm"

	"github.com/finops-validate/focuscheck/location"
)

// ApplicabilityCriteria is the set of dataset-global tokens a rule requires
// to be present before it participates in a run (e.g.
// "AVAILABILITY_ZONE_SUPPORTED"). An empty set is always satisfied.
type ApplicabilityCriteria struct {
	tokens []string
}

// NewApplicabilityCriteria constructs an ApplicabilityCriteria from raw
// catalog tokens. Duplicate tokens are preserved in order; the planner
// only needs set membership, not multiplicity.
func NewApplicabilityCriteria(tokens ...string) ApplicabilityCriteria {
	if len(tokens) == 0 {
		return ApplicabilityCriteria{}
	}
	cp := make([]string, len(tokens))
	copy(cp, tokens)
	return ApplicabilityCriteria{tokens: cp}
}

// Tokens returns the applicability tokens.
func (a ApplicabilityCriteria) Tokens() []string {
	return a.tokens
}

// IsEmpty reports whether no tokens are required, i.e. the rule is
// unconditionally applicable.
func (a ApplicabilityCriteria) IsEmpty() bool {
	return len(a.tokens) == 0
}

// SatisfiedBy reports whether every required token is present in the
// dataset-global applicability set.
func (a ApplicabilityCriteria) SatisfiedBy(available map[string]bool) bool {
	for _, tok := range a.tokens {
		if !available[tok] {
			return false
		}
	}
	return true
}

// RowCondition is a SQL fragment restricting the rows a rule applies to
// (e.g. "BilledCurrency IS NOT NULL"). It is opaque to the rule package;
// checks interprets it as a boolean SQL predicate, and depgraph conjoins
// it into AND-only descendants during composite condition propagation.
type RowCondition string

// IsEmpty reports whether no row restriction was declared.
func (c RowCondition) IsEmpty() bool {
	return c == ""
}

// Rule is a single FOCUS validation rule as loaded from a catalog
// document. Rule values are immutable after construction; the catalog
// loader is the only intended construction path in production use
// (exported here so depgraph/planner/engine tests can build fixtures
// directly without a catalog document).
type Rule struct {
	RuleID                string
	ColumnID              string
	CheckType             string
	ValidationCriteria    Requirement
	ApplicabilityCriteria ApplicabilityCriteria
	RowCondition          RowCondition
	MustSatisfy           string
	Status                Status

	// IsDynamic marks a leaf rule that requires inspecting data content to
	// decide whether it even applies (as opposed to a static applicability
	// token). Dynamic rules never reach the check generator registry; the
	// planner compiles them straight to SKIPPED_DYNAMIC.
	IsDynamic bool

	// Span identifies the source document the rule was loaded from, for
	// diagnostics raised against it after load (e.g. E_DANGLING_REFERENCE).
	// The catalog loader sets only its Source; line and column stay zero.
	Span location.Span
}

// NormalizeIdentifier applies Unicode NFC normalization to a rule_id or
// column_id. The catalog loader calls this on every identifier at load
// time so that visually identical identifiers authored with different
// combining-character sequences compare equal throughout depgraph and
// report.
func NormalizeIdentifier(s string) string {
	return norm.NFC.String(s)
}
