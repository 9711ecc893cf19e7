// Package rule defines the FOCUS validation rule model: a Rule binds a
// column_id and check_type to a validation_criteria requirement, optional
// applicability and row-level gating, and a status.
//
// Rule values are produced by the catalog loader and are immutable once
// constructed. The tagged-sum [Requirement] type mirrors the constraint
// hierarchy used elsewhere in the library: a closed set of concrete
// implementations behind an interface with an unexported marker method,
// discriminated by [RequirementKind].
package rule
