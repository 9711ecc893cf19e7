package diag

// CodeCategory represents the semantic domain of an error code.
//
// Categories represent the semantic domain of an error, not necessarily the
// API layer that emits it. Most codes are emitted exclusively by their
// category's layer, but some codes represent cross-cutting concerns.
type CodeCategory uint8

const (
	// CategorySentinel is for sentinel codes like E_LIMIT_REACHED and E_INTERNAL.
	CategorySentinel CodeCategory = iota

	// CategoryCatalog is for rule catalog load errors.
	CategoryCatalog

	// CategoryResolver is for dependency-graph resolution errors: dangling
	// references and cycles.
	CategoryResolver

	// CategoryPlan is for plan-build errors.
	CategoryPlan

	// CategoryCheck is for check-generation errors surfaced at catalog load
	// time, e.g. an invalid identifier.
	CategoryCheck

	// CategoryEngine is for fatal execution-engine errors: unclassified
	// query-engine failures, connection loss.
	CategoryEngine
)

// String returns a human-readable label for the category.
func (c CodeCategory) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategoryCatalog:
		return "catalog"
	case CategoryResolver:
		return "resolver"
	case CategoryPlan:
		return "plan"
	case CategoryCheck:
		return "check"
	case CategoryEngine:
		return "engine"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue.
//
// Error codes are stable identifiers that tools can match on, even when
// message text changes. The Code type uses unexported fields to enforce
// a closed set of valid codes—only codes defined in this package are valid.
//
// Code.String() values are globally unique across all categories. The
// CodeCategory is informational metadata for filtering and grouping.
type Code struct {
	value string
	cat   CodeCategory
}

// String returns the code's string representation (e.g., "E_UNKNOWN_CHECK_TYPE").
func (c Code) String() string {
	return c.value
}

// Category returns the programmatic category for this code.
func (c Code) Category() CodeCategory {
	return c.cat
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// code is the unexported constructor—callers cannot create arbitrary codes.
func code(value string, cat CodeCategory) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// E_LIMIT_REACHED is a sentinel code for explicit limit notification.
	// It does not automatically trigger Result.LimitReached(); use
	// Collector.LimitReached() to check limit status.
	E_LIMIT_REACHED = code("E_LIMIT_REACHED", CategorySentinel)

	// E_INTERNAL indicates an unexpected invariant failure (internal bug
	// indicator), e.g. Kahn's algorithm leaving unresolved blockers after
	// cycle detection already reported the catalog as acyclic.
	E_INTERNAL = code("E_INTERNAL", CategorySentinel)
)

// Catalog codes: fatal at load.
var (
	// E_UNKNOWN_CHECK_TYPE indicates a rule references a check_type outside
	// the closed generator registry.
	E_UNKNOWN_CHECK_TYPE = code("E_UNKNOWN_CHECK_TYPE", CategoryCatalog)

	// E_MISSING_REQUIRED_PARAM indicates validation_criteria omits a
	// parameter its check_type's generator requires.
	E_MISSING_REQUIRED_PARAM = code("E_MISSING_REQUIRED_PARAM", CategoryCatalog)

	// E_MALFORMED_REQUIREMENT indicates a composite requirement's JSON shape
	// does not match {Leaf | And | Or | Ref}.
	E_MALFORMED_REQUIREMENT = code("E_MALFORMED_REQUIREMENT", CategoryCatalog)

	// E_DUPLICATE_RULE_ID indicates the same rule_id appears twice in a
	// catalog version.
	E_DUPLICATE_RULE_ID = code("E_DUPLICATE_RULE_ID", CategoryCatalog)

	// E_INVALID_STATUS indicates a rule's status is outside {Active, Draft}.
	E_INVALID_STATUS = code("E_INVALID_STATUS", CategoryCatalog)

	// E_CATALOG_PARSE indicates the catalog document is not valid JSON(C).
	E_CATALOG_PARSE = code("E_CATALOG_PARSE", CategoryCatalog)
)

// Resolver codes.
var (
	// E_DANGLING_REFERENCE indicates a model_rule_reference or composite
	// child names a rule_id absent from the catalog closure.
	E_DANGLING_REFERENCE = code("E_DANGLING_REFERENCE", CategoryResolver)

	// E_CYCLE_DETECTED indicates a non-trivial strongly connected component,
	// or a self-loop, exists in the rule dependency graph.
	E_CYCLE_DETECTED = code("E_CYCLE_DETECTED", CategoryResolver)
)

// Plan codes: fatal at plan build.
var (
	// E_UNRESOLVED_BLOCKER indicates Kahn's algorithm terminated with nodes
	// remaining — an internal invariant violation, since cycle detection
	// should already have rejected the catalog.
	E_UNRESOLVED_BLOCKER = code("E_UNRESOLVED_BLOCKER", CategoryPlan)
)

// Check codes, surfaced at catalog load via generator validation.
var (
	// E_INVALID_IDENTIFIER indicates a column/identifier parameter fails the
	// `[A-Za-z_][A-Za-z0-9_]*` validation the registry requires before SQL
	// interpolation.
	E_INVALID_IDENTIFIER = code("E_INVALID_IDENTIFIER", CategoryCheck)
)

// Engine codes: fatal at run.
var (
	// E_QUERY_ENGINE_FAILURE indicates an unclassified query-engine error
	// (syntax, type mismatch, resource exhaustion) that aborts the run.
	E_QUERY_ENGINE_FAILURE = code("E_QUERY_ENGINE_FAILURE", CategoryEngine)
)

// allCodes contains all defined codes for AllCodes() and uniqueness verification.
var allCodes = []Code{
	E_LIMIT_REACHED,
	E_INTERNAL,
	E_UNKNOWN_CHECK_TYPE,
	E_MISSING_REQUIRED_PARAM,
	E_MALFORMED_REQUIREMENT,
	E_DUPLICATE_RULE_ID,
	E_INVALID_STATUS,
	E_CATALOG_PARSE,
	E_DANGLING_REFERENCE,
	E_CYCLE_DETECTED,
	E_UNRESOLVED_BLOCKER,
	E_INVALID_IDENTIFIER,
	E_QUERY_ENGINE_FAILURE,
}

// AllCodes returns all defined codes.
//
// This function is useful for tooling and testing. The returned slice is a
// copy; modifications do not affect the original.
func AllCodes() []Code {
	result := make([]Code, len(allCodes))
	copy(result, allCodes)
	return result
}

// CodesByCategory returns codes in the given category.
//
// The returned slice is a new allocation; modifications do not affect
// internal state.
func CodesByCategory(cat CodeCategory) []Code {
	var result []Code
	for _, c := range allCodes {
		if c.cat == cat {
			result = append(result, c)
		}
	}
	return result
}
