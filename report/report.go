package report

import "sort"

// Report is the immutable result of one run: exactly one Record per
// rule_id in the catalog closure that was planned, plus precomputed
// summary counts.
type Report struct {
	runID   string
	records map[string]Record
	order   []string // rule_ids, lexicographic
	summary map[Outcome]int
}

func newReport(runID string, records map[string]Record) *Report {
	order := make([]string, 0, len(records))
	summary := make(map[Outcome]int, 5)
	for id, rec := range records {
		order = append(order, id)
		summary[rec.Status]++
	}
	sort.Strings(order)
	return &Report{runID: runID, records: records, order: order, summary: summary}
}

// RunID is the unique identifier stamped on this run.
func (r *Report) RunID() string {
	return r.runID
}

// Get returns the record for ruleID and whether one was recorded.
func (r *Report) Get(ruleID string) (Record, bool) {
	rec, ok := r.records[ruleID]
	return rec, ok
}

// RuleIDs returns every recorded rule_id in lexicographic order, per the
// report's documented iteration order (independent of execution order).
func (r *Report) RuleIDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of recorded outcomes.
func (r *Report) Len() int {
	return len(r.records)
}

// Summary returns the count of rules at each outcome status.
func (r *Report) Summary() map[Outcome]int {
	out := make(map[Outcome]int, len(r.summary))
	for k, v := range r.summary {
		out[k] = v
	}
	return out
}
