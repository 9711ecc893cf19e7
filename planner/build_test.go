package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-validate/focuscheck/planner"
	"github.com/finops-validate/focuscheck/rule"
)

func leafRule(id, column string) *rule.Rule {
	return &rule.Rule{
		RuleID:             id,
		ColumnID:           column,
		CheckType:          "value_not_null",
		ValidationCriteria: rule.NewLeaf("value_not_null", rule.NewParams(map[string]string{"column": column})),
		Status:             rule.Active,
	}
}

func TestBuild_SchedulesSimpleLeaf(t *testing.T) {
	rules := []*rule.Rule{leafRule("BilledCost-C-001-M", "BilledCost")}
	plan, result := planner.Build(rules)
	require.True(t, result.OK())
	require.Len(t, plan.Layers, 1)

	node, ok := plan.Node("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, planner.Scheduled, node.Status)
	assert.Equal(t, rule.KindLeaf, node.Root.Kind)
	assert.Contains(t, node.Root.SQL, "{table_name}")
}

func TestBuild_LayersRespectDependencyOrder(t *testing.T) {
	child := leafRule("EffectiveCost-C-001-M", "EffectiveCost")
	parent := &rule.Rule{
		RuleID:             "BilledCost-C-000-M",
		ValidationCriteria: rule.NewAnd(rule.NewRef("EffectiveCost-C-001-M")),
		Status:             rule.Active,
	}
	plan, result := planner.Build([]*rule.Rule{parent, child})
	require.True(t, result.OK())
	require.Len(t, plan.Layers, 2)

	// The referenced rule has no dependencies and must be scheduled
	// before the composite that references it.
	assert.Equal(t, []string{"EffectiveCost-C-001-M"}, ruleIDsOf(plan.Layers[0]))
	assert.Equal(t, []string{"BilledCost-C-000-M"}, ruleIDsOf(plan.Layers[1]))
}

func TestBuild_LayerSortedLexicographically(t *testing.T) {
	rules := []*rule.Rule{
		leafRule("BilledCost-C-002-M", "BilledCost"),
		leafRule("BilledCost-C-001-M", "BilledCost"),
		leafRule("BilledCost-C-003-M", "BilledCost"),
	}
	plan, result := planner.Build(rules)
	require.True(t, result.OK())
	require.Len(t, plan.Layers, 1)
	assert.Equal(t,
		[]string{"BilledCost-C-001-M", "BilledCost-C-002-M", "BilledCost-C-003-M"},
		ruleIDsOf(plan.Layers[0]))
}

func TestBuild_CompositeSchedulesRefChildWithoutSQL(t *testing.T) {
	child := leafRule("EffectiveCost-C-001-M", "EffectiveCost")
	parent := &rule.Rule{
		RuleID:             "BilledCost-C-000-M",
		ValidationCriteria: rule.NewAnd(rule.NewRef("EffectiveCost-C-001-M")),
		Status:             rule.Active,
	}
	plan, result := planner.Build([]*rule.Rule{parent, child})
	require.True(t, result.OK())

	node, ok := plan.Node("BilledCost-C-000-M")
	require.True(t, ok)
	require.Equal(t, rule.KindAnd, node.Root.Kind)
	require.Len(t, node.Root.Children, 1)
	refChild := node.Root.Children[0]
	assert.Equal(t, rule.KindRef, refChild.Kind)
	assert.Equal(t, "EffectiveCost-C-001-M", refChild.RefRuleID)
	assert.Empty(t, refChild.SQL)
}

func TestBuild_DraftSkippedByDefault(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	r.Status = rule.Draft
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	node, ok := plan.Node("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, planner.SkippedNonApplicable, node.Status)
	assert.Contains(t, node.Reason, "draft")
}

func TestBuild_DraftIncludedUnderPolicy(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	r.Status = rule.Draft
	plan, result := planner.Build([]*rule.Rule{r}, planner.WithDraftPolicy(planner.IncludeDrafts))
	require.True(t, result.OK())

	node, ok := plan.Node("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, planner.Scheduled, node.Status)
}

func TestBuild_NonApplicableRuleSkipped(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	r.ApplicabilityCriteria = rule.NewApplicabilityCriteria("AVAILABILITY_ZONE_SUPPORTED")

	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())
	node, ok := plan.Node("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, planner.SkippedNonApplicable, node.Status)

	plan2, result2 := planner.Build([]*rule.Rule{r},
		planner.WithApplicability(map[string]bool{"AVAILABILITY_ZONE_SUPPORTED": true}))
	require.True(t, result2.OK())
	node2, ok := plan2.Node("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, planner.Scheduled, node2.Status)
}

func TestBuild_HierarchicalApplicability_ChildSkippedWithParent(t *testing.T) {
	child := leafRule("EffectiveCost-C-001-M", "EffectiveCost")
	parent := &rule.Rule{
		RuleID:                "BilledCost-C-000-M",
		ValidationCriteria:    rule.NewAnd(rule.NewRef("EffectiveCost-C-001-M")),
		ApplicabilityCriteria: rule.NewApplicabilityCriteria("AVAILABILITY_ZONE_SUPPORTED"),
		Status:                rule.Active,
	}

	// The dataset does not support the parent's required token; the
	// child, reached only through that parent, is non-applicable too
	// even though its own applicability_criteria is empty (trivially
	// satisfied).
	plan, result := planner.Build([]*rule.Rule{parent, child})
	require.True(t, result.OK())

	parentNode, ok := plan.Node("BilledCost-C-000-M")
	require.True(t, ok)
	assert.Equal(t, planner.SkippedNonApplicable, parentNode.Status)

	childNode, ok := plan.Node("EffectiveCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, planner.SkippedNonApplicable, childNode.Status)
}

func TestBuild_HierarchicalApplicability_ChildApplicableViaOtherParent(t *testing.T) {
	shared := leafRule("EffectiveCost-C-001-M", "EffectiveCost")
	blockedParent := &rule.Rule{
		RuleID:                "BilledCost-C-000-M",
		ValidationCriteria:    rule.NewAnd(rule.NewRef("EffectiveCost-C-001-M")),
		ApplicabilityCriteria: rule.NewApplicabilityCriteria("AVAILABILITY_ZONE_SUPPORTED"),
		Status:                rule.Active,
	}
	openParent := &rule.Rule{
		RuleID:             "ListCost-C-000-M",
		ValidationCriteria: rule.NewAnd(rule.NewRef("EffectiveCost-C-001-M")),
		Status:             rule.Active,
	}

	plan, result := planner.Build([]*rule.Rule{blockedParent, openParent, shared})
	require.True(t, result.OK())

	// shared is reachable via openParent, whose own criteria are
	// trivially satisfied, so it is scheduled despite blockedParent
	// being non-applicable.
	sharedNode, ok := plan.Node("EffectiveCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, planner.Scheduled, sharedNode.Status)
}

func TestBuild_DynamicRuleSkipped(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	r.IsDynamic = true
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	node, ok := plan.Node("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, planner.SkippedDynamic, node.Status)
}

func TestBuild_RuleIDsFlattensAllLayers(t *testing.T) {
	child := leafRule("EffectiveCost-C-001-M", "EffectiveCost")
	parent := &rule.Rule{
		RuleID:             "BilledCost-C-000-M",
		ValidationCriteria: rule.NewAnd(rule.NewRef("EffectiveCost-C-001-M")),
		Status:             rule.Active,
	}
	plan, result := planner.Build([]*rule.Rule{parent, child})
	require.True(t, result.OK())
	assert.ElementsMatch(t, []string{"BilledCost-C-000-M", "EffectiveCost-C-001-M"}, plan.RuleIDs())
}

func TestBuild_TargetPrefixExcludesUnrelated(t *testing.T) {
	rules := []*rule.Rule{
		leafRule("BilledCost-C-001-M", "BilledCost"),
		leafRule("EffectiveCost-C-001-M", "EffectiveCost"),
	}
	plan, result := planner.Build(rules, planner.WithTargetPrefix("BilledCost"))
	require.True(t, result.OK())
	assert.Equal(t, []string{"BilledCost-C-001-M"}, plan.RuleIDs())
}

func TestBuild_DanglingReferenceSurfacedFromDepgraph(t *testing.T) {
	r := &rule.Rule{
		RuleID:             "BilledCost-C-000-M",
		ValidationCriteria: rule.NewAnd(rule.NewRef("BilledCost-C-999-M")),
		Status:             rule.Active,
	}
	plan, result := planner.Build([]*rule.Rule{r})
	require.False(t, result.OK())
	assert.Nil(t, plan)
}

func ruleIDsOf(nodes []planner.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.RuleID
	}
	return out
}
