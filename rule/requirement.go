package rule

import (
	"sort"
	"strings"
)

// RequirementKind identifies the concrete shape of a [Requirement].
type RequirementKind uint8

const (
	// KindLeaf is a single check_type invocation with validation_criteria params.
	KindLeaf RequirementKind = iota
	// KindAnd is a composite requirement; every child must be satisfied.
	KindAnd
	// KindOr is a composite requirement; at least one child must be satisfied.
	KindOr
	// KindRef is a reference to another rule's must_satisfy outcome by rule_id.
	KindRef
)

// String returns the name of the requirement kind.
func (k RequirementKind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	case KindRef:
		return "Ref"
	default:
		return "RequirementKind(unknown)"
	}
}

// Requirement is the tagged sum backing a rule's validation_criteria:
// a leaf check invocation, an AND/OR composite over child requirements,
// or a reference to another rule by rule_id.
//
// All concrete implementations are defined in this package; the unexported
// marker method prevents external implementations so exhaustive type
// switches in checks and depgraph stay safe.
type Requirement interface {
	// Kind returns the requirement's discriminant.
	Kind() RequirementKind

	// String returns a human-readable representation, used in diagnostics
	// and the explain() stream.
	String() string

	// requirement is an unexported marker method to prevent external
	// implementations.
	requirement()
}

// LeafRequirement invokes a single check generator identified by CheckType,
// with Params supplying the generator's validation_criteria arguments.
type LeafRequirement struct {
	CheckType string
	Params    Params
}

// NewLeaf constructs a leaf requirement.
func NewLeaf(checkType string, params Params) LeafRequirement {
	return LeafRequirement{CheckType: checkType, Params: params}
}

// Kind returns KindLeaf.
func (LeafRequirement) Kind() RequirementKind { return KindLeaf }

func (r LeafRequirement) String() string {
	return r.CheckType + "(" + r.Params.String() + ")"
}

func (LeafRequirement) requirement() {}

// AndRequirement is satisfied only if every Children requirement is
// satisfied. Per the propagation rule, an AND composite's row_condition
// (if any) is conjoined into every descendant leaf's evaluation; an OR
// composite is a propagation boundary and stops it.
type AndRequirement struct {
	Children []Requirement
}

// NewAnd constructs an AND composite requirement.
func NewAnd(children ...Requirement) AndRequirement {
	return AndRequirement{Children: children}
}

// Kind returns KindAnd.
func (AndRequirement) Kind() RequirementKind { return KindAnd }

func (r AndRequirement) String() string {
	return joinChildren("AND", r.Children)
}

func (AndRequirement) requirement() {}

// OrRequirement is satisfied if at least one Children requirement is
// satisfied.
type OrRequirement struct {
	Children []Requirement
}

// NewOr constructs an OR composite requirement.
func NewOr(children ...Requirement) OrRequirement {
	return OrRequirement{Children: children}
}

// Kind returns KindOr.
func (OrRequirement) Kind() RequirementKind { return KindOr }

func (r OrRequirement) String() string {
	return joinChildren("OR", r.Children)
}

func (OrRequirement) requirement() {}

// RefRequirement defers to another rule's outcome, identified by RuleID.
// The depgraph resolver rewrites these into model_rule_reference edges;
// a RefRequirement naming a rule_id absent from the catalog produces
// E_DANGLING_REFERENCE.
type RefRequirement struct {
	RuleID string
}

// NewRef constructs a rule reference requirement.
func NewRef(ruleID string) RefRequirement {
	return RefRequirement{RuleID: ruleID}
}

// Kind returns KindRef.
func (RefRequirement) Kind() RequirementKind { return KindRef }

func (r RefRequirement) String() string {
	return "ref(" + r.RuleID + ")"
}

func (RefRequirement) requirement() {}

func joinChildren(op string, children []Requirement) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}

// Params is an immutable, value-typed bag of validation_criteria arguments
// keyed by parameter name. It replaces the mutable-map style of a generic
// JSON object with a type that can be safely shared across check
// generators without defensive copying.
type Params struct {
	entries map[string]string
}

// NewParams constructs a Params from a plain map. The map is copied; the
// caller's map may be freely mutated afterward.
func NewParams(m map[string]string) Params {
	if len(m) == 0 {
		return Params{}
	}
	entries := make(map[string]string, len(m))
	for k, v := range m {
		entries[k] = v
	}
	return Params{entries: entries}
}

// Get returns the value for key and whether it was present.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (p Params) Len() int {
	return len(p.entries)
}

// Keys returns the parameter names in sorted order, for deterministic
// iteration (e.g. when generating SQL or rendering diagnostics).
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders params as a sorted "key=value, ..." list.
func (p Params) String() string {
	keys := p.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p.entries[k]
	}
	return strings.Join(parts, ", ")
}
