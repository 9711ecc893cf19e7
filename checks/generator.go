package checks

import (
	"fmt"
	"sort"

	"github.com/finops-validate/focuscheck/rule"
)

// TableNamePlaceholder is the free placeholder every generated SQL string
// carries for the table the check runs against. The execution engine
// substitutes it with the actual table name (typically "focus_data") at
// run time; it is never substituted at generation time so a compiled
// check remains reusable across runs against differently-named tables.
const TableNamePlaceholder = "{table_name}"

// Generator produces a SQL query for one check_type. The query must
// evaluate to a single row with columns (violations BIGINT,
// error_message VARCHAR NULLABLE).
//
// Generator implementations are unexported; external callers only ever
// see them through [Lookup], keeping the registry closed per the package
// doc.
type Generator interface {
	// RequiredKeys returns the validation_criteria parameter names that
	// must be present (after defaults are applied) or rule load fails.
	RequiredKeys() []string

	// Defaults returns parameter names and default values applied when
	// absent from validation_criteria.
	Defaults() map[string]string

	// GenerateSQL produces the check's SQL, given the rule's frozen
	// parameters (already defaulted and required-key checked by
	// [ValidateParams]) and the inherited row condition propagated from
	// ancestor AND-composites, if any.
	GenerateSQL(params rule.Params, inheritedCondition string) (string, error)
}

// generatorSpec is the sole concrete [Generator] implementation; every
// registry entry is one generatorSpec value. This mirrors a closed
// enumeration (one variant per check kind) without needing one named Go
// type per check_type.
type generatorSpec struct {
	requiredKeys []string
	defaults     map[string]string
	generate     func(params rule.Params, inherited string) (string, error)
}

func (g generatorSpec) RequiredKeys() []string {
	out := make([]string, len(g.requiredKeys))
	copy(out, g.requiredKeys)
	return out
}

func (g generatorSpec) Defaults() map[string]string {
	out := make(map[string]string, len(g.defaults))
	for k, v := range g.defaults {
		out[k] = v
	}
	return out
}

func (g generatorSpec) GenerateSQL(params rule.Params, inherited string) (string, error) {
	return g.generate(params, inherited)
}

// Lookup returns the generator registered for checkType, or (nil, false)
// if checkType is not a recognized leaf check kind. Structural check
// types — composite_and, composite_or, model_rule_reference — are never
// registered here; they are handled directly by depgraph and planner.
func Lookup(checkType string) (Generator, bool) {
	g, ok := registry[checkType]
	if !ok {
		return nil, false
	}
	return g, true
}

// AllCheckTypes returns the registered leaf check_type names in a
// deterministic order, for diagnostics and documentation.
func AllCheckTypes() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ErrMissingRequiredParam is wrapped into the error returned by
// [ValidateParams] when a required key is absent even after defaults.
type ErrMissingRequiredParam struct {
	Param string
}

func (e *ErrMissingRequiredParam) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Param)
}

// ValidateParams applies a generator's defaults to params and checks that
// every required key is present afterward. The catalog loader calls this
// once per leaf rule at load time; a non-nil error is fatal to the load
// (E_MISSING_REQUIRED_PARAM).
func ValidateParams(gen Generator, params rule.Params) (rule.Params, error) {
	merged := make(map[string]string, params.Len())
	for _, k := range params.Keys() {
		v, _ := params.Get(k)
		merged[k] = v
	}
	for k, v := range gen.Defaults() {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	filled := rule.NewParams(merged)

	for _, required := range gen.RequiredKeys() {
		if _, ok := filled.Get(required); !ok {
			return rule.Params{}, &ErrMissingRequiredParam{Param: required}
		}
	}
	return filled, nil
}

// whereClause combines an inherited row condition with a check's own
// predicate, per §4.1: "wraps its core predicate inside WHERE
// (<inherited_condition>) AND <own_condition> when an inherited condition
// is present."
func whereClause(inherited, own string) string {
	if inherited == "" {
		return "WHERE " + own
	}
	return "WHERE (" + inherited + ") AND " + own
}

// countQuery wraps a row-matching predicate into the single-row
// (violations, error_message) shape every generated check must return.
// error_message is left NULL; a generator whose predicate doesn't
// describe a single offending value well (type/format/regex/allowed-
// values checks, whose useful diagnostic is the row's own value, not a
// column-level constant) relies on the rule's own must_satisfy text
// instead, attached by the engine when no SQL-level message is present.
func countQuery(predicate string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) AS violations, CAST(NULL AS VARCHAR) AS error_message FROM %s %s",
		TableNamePlaceholder, predicate,
	)
}

// countQueryWithMessage is countQuery's counterpart for a generator that
// can compute a useful column-level diagnostic from the predicate alone
// (e.g. "column X contains NULL values"), without needing the catalog's
// own must_satisfy text.
func countQueryWithMessage(predicate, message string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) AS violations, CASE WHEN COUNT(*) > 0 THEN %s ELSE NULL END AS error_message FROM %s %s",
		Lit(message), TableNamePlaceholder, predicate,
	)
}
