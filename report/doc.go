// Package report is the immutable result model produced by a run: one
// outcome record per rule_id in the catalog closure, plus run-level
// summary counts. Mirrors the teacher's diag.Result split between a
// mutable Builder (analogous to diag.Collector) accumulating records
// during execution and an immutable, precomputed Report handed back to
// the caller.
package report
