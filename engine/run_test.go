package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-validate/focuscheck/engine"
	"github.com/finops-validate/focuscheck/planner"
	"github.com/finops-validate/focuscheck/report"
	"github.com/finops-validate/focuscheck/rule"
)

// fakeTable is a scripted TableHandle: violation counts, errors, and
// generator-supplied error messages keyed by the literal SQL string
// submitted, so tests can assert exactly what the engine sent without a
// real query engine.
type fakeTable struct {
	violations    map[string]int64
	errorMessages map[string]string
	errs          map[string]error
}

func (f *fakeTable) TableName() string { return "focus_data" }

func (f *fakeTable) ExecuteCheck(ctx context.Context, sql string) (int64, string, error) {
	if err, ok := f.errs[sql]; ok {
		return 0, "", err
	}
	return f.violations[sql], f.errorMessages[sql], nil
}

func leafRule(id, column string) *rule.Rule {
	return &rule.Rule{
		RuleID:             id,
		ColumnID:           column,
		CheckType:          "value_not_null",
		ValidationCriteria: rule.NewLeaf("value_not_null", rule.NewParams(map[string]string{"column": column})),
		Status:             rule.Active,
	}
}

func TestRun_SimplePass(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	table := &fakeTable{violations: map[string]int64{}}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	rec, ok := rep.Get("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, report.Pass, rec.Status)
}

func TestRun_LeafFailsOnViolations(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	node, _ := plan.Node("BilledCost-C-001-M")
	sql := node.Root.SQL
	// Substitute the real table name the same way the engine will.
	actualSQL := substitutePlaceholder(sql, "focus_data")

	table := &fakeTable{violations: map[string]int64{actualSQL: 3}}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	rec, ok := rep.Get("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, report.Fail, rec.Status)
	assert.Equal(t, int64(3), rec.Violations)
	// No must_satisfy text on this fixture and no generator-supplied
	// message: the generic fallback still fills ErrorMessage rather than
	// leaving a FAIL undiagnosed.
	assert.NotEmpty(t, rec.ErrorMessage)
}

func TestRun_FailErrorMessageUsesMustSatisfyText(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	r.MustSatisfy = "BilledCost MUST NOT be null."
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	node, _ := plan.Node("BilledCost-C-001-M")
	actualSQL := substitutePlaceholder(node.Root.SQL, "focus_data")

	table := &fakeTable{violations: map[string]int64{actualSQL: 1}}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	rec, ok := rep.Get("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, report.Fail, rec.Status)
	assert.Equal(t, "BilledCost MUST NOT be null.", rec.ErrorMessage)
}

func TestRun_FailErrorMessagePrefersGeneratorMessage(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	r.MustSatisfy = "BilledCost MUST NOT be null."
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	node, _ := plan.Node("BilledCost-C-001-M")
	actualSQL := substitutePlaceholder(node.Root.SQL, "focus_data")

	table := &fakeTable{
		violations:    map[string]int64{actualSQL: 1},
		errorMessages: map[string]string{actualSQL: "BilledCost contains NULL values"},
	}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	rec, ok := rep.Get("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, report.Fail, rec.Status)
	assert.Equal(t, "BilledCost contains NULL values", rec.ErrorMessage)
}

func TestRun_SkippedNodesRecordedWithoutQuery(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	r.ApplicabilityCriteria = rule.NewApplicabilityCriteria("AVAILABILITY_ZONE_SUPPORTED")
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	table := &fakeTable{violations: map[string]int64{}}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	rec, ok := rep.Get("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, report.SkippedNonApplicable, rec.Status)
}

func TestRun_MissingColumnClassifiedAsFail(t *testing.T) {
	r := leafRule("RegionId-C-001-M", "RegionId")
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	node, _ := plan.Node("RegionId-C-001-M")
	actualSQL := substitutePlaceholder(node.Root.SQL, "focus_data")

	table := &fakeTable{errs: map[string]error{
		actualSQL: errors.New(`Binder Error: Referenced column "RegionId" not found in FROM clause`),
	}}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	rec, ok := rep.Get("RegionId-C-001-M")
	require.True(t, ok)
	assert.Equal(t, report.Fail, rec.Status)
	assert.Contains(t, rec.ErrorMessage, "RegionId")
}

func TestRun_OtherQueryErrorIsFatal(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	node, _ := plan.Node("BilledCost-C-001-M")
	actualSQL := substitutePlaceholder(node.Root.SQL, "focus_data")

	table := &fakeTable{errs: map[string]error{
		actualSQL: errors.New("Out of Memory Error: could not allocate"),
	}}
	_, err := engine.Run(context.Background(), plan, table)
	require.Error(t, err)

	var runErr *engine.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, "BilledCost-C-001-M", runErr.RuleID)
}

func TestRun_CompositeANDFailsWithFailingChild(t *testing.T) {
	childA := leafRule("BilledCost-C-001-M", "BilledCost")
	childB := leafRule("BilledCost-C-002-M", "BilledCost")
	parent := &rule.Rule{
		RuleID:             "BilledCost-C-000-M",
		ValidationCriteria: rule.NewAnd(rule.NewRef("BilledCost-C-001-M"), rule.NewRef("BilledCost-C-002-M")),
		Status:             rule.Active,
	}
	plan, result := planner.Build([]*rule.Rule{parent, childA, childB})
	require.True(t, result.OK())

	nodeA, _ := plan.Node("BilledCost-C-001-M")
	sqlA := substitutePlaceholder(nodeA.Root.SQL, "focus_data")

	table := &fakeTable{violations: map[string]int64{sqlA: 1}}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	recA, _ := rep.Get("BilledCost-C-001-M")
	assert.Equal(t, report.Fail, recA.Status)

	recParent, ok := rep.Get("BilledCost-C-000-M")
	require.True(t, ok)
	assert.Equal(t, report.Fail, recParent.Status)
}

func TestRun_CompositeORPassesWithOnePassingChild(t *testing.T) {
	childA := leafRule("BilledCost-C-001-M", "BilledCost")
	childB := leafRule("BilledCost-C-002-M", "BilledCost")
	parent := &rule.Rule{
		RuleID:             "BilledCost-C-000-M",
		ValidationCriteria: rule.NewOr(rule.NewRef("BilledCost-C-001-M"), rule.NewRef("BilledCost-C-002-M")),
		Status:             rule.Active,
	}
	plan, result := planner.Build([]*rule.Rule{parent, childA, childB})
	require.True(t, result.OK())

	nodeA, _ := plan.Node("BilledCost-C-001-M")
	sqlA := substitutePlaceholder(nodeA.Root.SQL, "focus_data")

	table := &fakeTable{violations: map[string]int64{sqlA: 1}}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	recParent, ok := rep.Get("BilledCost-C-000-M")
	require.True(t, ok)
	assert.Equal(t, report.Pass, recParent.Status)
}

func TestRun_DependentOfFailedReferenceIsSkippedUpstream(t *testing.T) {
	// A rule whose entire validation_criteria is a bare reference to a
	// failing rule resolves to SKIPPED_UPSTREAM, not FAIL.
	referenced := leafRule("BilledCost-C-001-M", "BilledCost")
	dependent := &rule.Rule{
		RuleID:             "BilledCost-C-002-M",
		ValidationCriteria: rule.NewRef("BilledCost-C-001-M"),
		Status:             rule.Active,
	}
	plan, result := planner.Build([]*rule.Rule{dependent, referenced})
	require.True(t, result.OK())

	node, _ := plan.Node("BilledCost-C-001-M")
	sql := substitutePlaceholder(node.Root.SQL, "focus_data")

	table := &fakeTable{violations: map[string]int64{sql: 1}}
	rep, err := engine.Run(context.Background(), plan, table)
	require.NoError(t, err)

	refRec, _ := rep.Get("BilledCost-C-001-M")
	assert.Equal(t, report.Fail, refRec.Status)

	depRec, ok := rep.Get("BilledCost-C-002-M")
	require.True(t, ok)
	assert.Equal(t, report.SkippedUpstream, depRec.Status)
	assert.Contains(t, depRec.Reason, "BilledCost-C-001-M")
}

func TestRun_CancelledContextSkipsRemainingRules(t *testing.T) {
	r := leafRule("BilledCost-C-001-M", "BilledCost")
	plan, result := planner.Build([]*rule.Rule{r})
	require.True(t, result.OK())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := &fakeTable{violations: map[string]int64{}}
	rep, err := engine.Run(ctx, plan, table)
	require.NoError(t, err)

	rec, ok := rep.Get("BilledCost-C-001-M")
	require.True(t, ok)
	assert.Equal(t, report.SkippedUpstream, rec.Status)
	assert.Equal(t, "cancelled", rec.Reason)
}

func substitutePlaceholder(sql, tableName string) string {
	return fmt.Sprintf(sqlReplacer(sql), tableName)
}

func sqlReplacer(sql string) string {
	// Mirrors engine's own strings.ReplaceAll("{table_name}", ...), but
	// expressed via a %s placeholder so the test fixture stays a single
	// call site.
	out := ""
	for i := 0; i < len(sql); i++ {
		if i+len("{table_name}") <= len(sql) && sql[i:i+len("{table_name}")] == "{table_name}" {
			out += "%[1]s"
			i += len("{table_name}") - 1
			continue
		}
		out += string(sql[i])
	}
	return out
}
