package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finops-validate/focuscheck/rule"
)

func TestRequirement_Kind(t *testing.T) {
	assert.Equal(t, rule.KindLeaf, rule.NewLeaf("column_required", rule.Params{}).Kind())
	assert.Equal(t, rule.KindAnd, rule.NewAnd().Kind())
	assert.Equal(t, rule.KindOr, rule.NewOr().Kind())
	assert.Equal(t, rule.KindRef, rule.NewRef("BilledCost-C-001-M").Kind())
}

func TestRequirement_String(t *testing.T) {
	leaf := rule.NewLeaf("format_datetime", rule.NewParams(map[string]string{"format": "RFC3339"}))
	assert.Equal(t, `format_datetime(format=RFC3339)`, leaf.String())

	ref := rule.NewRef("BilledCost-C-003-M")
	assert.Equal(t, "ref(BilledCost-C-003-M)", ref.String())

	and := rule.NewAnd(leaf, ref)
	assert.Equal(t, "(format_datetime(format=RFC3339) AND ref(BilledCost-C-003-M))", and.String())

	or := rule.NewOr(leaf, ref)
	assert.Equal(t, "(format_datetime(format=RFC3339) OR ref(BilledCost-C-003-M))", or.String())
}

func TestRequirementKind_String(t *testing.T) {
	tests := []struct {
		kind rule.RequirementKind
		want string
	}{
		{rule.KindLeaf, "Leaf"},
		{rule.KindAnd, "And"},
		{rule.KindOr, "Or"},
		{rule.KindRef, "Ref"},
		{rule.RequirementKind(255), "RequirementKind(unknown)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestParams_GetAndLen(t *testing.T) {
	p := rule.NewParams(map[string]string{"column": "AvailabilityZone", "format": "RFC3339"})
	assert.Equal(t, 2, p.Len())

	v, ok := p.Get("column")
	assert.True(t, ok)
	assert.Equal(t, "AvailabilityZone", v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func TestParams_Empty(t *testing.T) {
	var p rule.Params
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, "", p.String())
}

func TestParams_KeysSorted(t *testing.T) {
	p := rule.NewParams(map[string]string{"z": "1", "a": "2", "m": "3"})
	assert.Equal(t, []string{"a", "m", "z"}, p.Keys())
}

func TestParams_String(t *testing.T) {
	p := rule.NewParams(map[string]string{"column": "AvailabilityZone", "format": "RFC3339"})
	assert.Equal(t, "column=AvailabilityZone, format=RFC3339", p.String())
}

func TestParams_CopyIsolation(t *testing.T) {
	m := map[string]string{"a": "1"}
	p := rule.NewParams(m)
	m["a"] = "2"
	v, _ := p.Get("a")
	assert.Equal(t, "1", v, "Params must copy the input map, not alias it")
}

// Requirement must be a closed sum: a composite's children can mix kinds
// freely, since depgraph walks it by Kind() rather than by Go type assertion
// chains.
func TestRequirement_MixedComposite(t *testing.T) {
	tree := rule.NewAnd(
		rule.NewLeaf("value_not_null", rule.Params{}),
		rule.NewOr(
			rule.NewRef("BilledCost-C-002-M"),
			rule.NewRef("BilledCost-C-003-M"),
		),
	)
	assert.Equal(t, rule.KindAnd, tree.Kind())
	assert.Len(t, tree.Children, 2)
	assert.Equal(t, rule.KindLeaf, tree.Children[0].Kind())
	assert.Equal(t, rule.KindOr, tree.Children[1].Kind())
}
