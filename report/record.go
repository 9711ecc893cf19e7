package report

// Record is one rule's outcome for a single run.
type Record struct {
	Status     Outcome
	Violations int64

	// ErrorMessage is populated for Fail: the check generator's own
	// diagnostic text, missing-column identifiers extracted from a
	// query-engine error, or, when neither is present, the rule's
	// must_satisfy text (a generic message if the rule has none).
	ErrorMessage string

	// Reason explains a Skipped* status (e.g. "applicability_criteria
	// not satisfied", "upstream rule X did not pass", "cancelled").
	Reason string
}
