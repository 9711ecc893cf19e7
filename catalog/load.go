package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"

	"github.com/tidwall/jsonc"

	"github.com/finops-validate/focuscheck/checks"
	"github.com/finops-validate/focuscheck/diag"
	"github.com/finops-validate/focuscheck/internal/trace"
	"github.com/finops-validate/focuscheck/location"
	"github.com/finops-validate/focuscheck/rule"
)

// Load reads every *.json file under rules/version_sets/<version>/ in
// fsys, decodes each as either a single rule object or an array of rule
// objects, and returns the fully typed, validated rule set.
//
// A non-nil error means the catalog files could not be listed or read
// (glob failure, fs read error) or ctx was cancelled; a version
// directory that does not exist matches no files and yields no rules
// and no error. Per-rule problems (malformed JSON,
// unknown check_type, missing required parameter, duplicate rule_id,
// invalid status) are reported through the returned diag.Result instead,
// so a caller can see every catalog problem in one pass rather than
// stopping at the first.
func Load(ctx context.Context, fsys fs.FS, version string, opts ...Option) ([]*rule.Rule, diag.Result, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	op := trace.Begin(ctx, cfg.logger, "focuscheck.catalog.load", slog.String("version", version))

	collector := diag.NewCollectorUnlimited()

	dir := path.Join("rules", "version_sets", version)
	entries, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		wrapped := fmt.Errorf("catalog: globbing %s: %w", dir, err)
		op.End(wrapped)
		return nil, collector.Result(), wrapped
	}
	sort.Strings(entries)

	seen := make(map[string]location.Span, len(entries))
	var rules []*rule.Rule

	for _, filePath := range entries {
		if err := ctx.Err(); err != nil {
			op.End(err)
			return rules, collector.Result(), err
		}

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			wrapped := fmt.Errorf("catalog: reading %s: %w", filePath, err)
			op.End(wrapped)
			return rules, collector.Result(), wrapped
		}

		loaded := loadFile(filePath, data, seen, collector)
		rules = append(rules, loaded...)
	}

	op.End(nil, slog.Int("rule_count", len(rules)), slog.Int("file_count", len(entries)))
	return rules, collector.Result(), nil
}

// loadFile decodes one catalog document, which may be a single rule
// object or a JSON array of rule objects, and validates each rule it
// finds against the check generator registry and the duplicate rule_id
// set accumulated so far across the whole version directory.
func loadFile(filePath string, data []byte, seen map[string]location.Span, collector *diag.Collector) []*rule.Rule {
	source := location.NewSourceID(filePath)
	processed := jsonc.ToJSON(data)

	var docs []ruleDoc
	if isJSONArray(processed) {
		if err := json.Unmarshal(processed, &docs); err != nil {
			collector.Collect(parseError(source, filePath, err))
			return nil
		}
	} else {
		var single ruleDoc
		if err := json.Unmarshal(processed, &single); err != nil {
			collector.Collect(parseError(source, filePath, err))
			return nil
		}
		docs = []ruleDoc{single}
	}

	var out []*rule.Rule
	for i, doc := range docs {
		r, ok := buildRule(source, filePath, i, doc, seen, collector)
		if ok {
			out = append(out, r)
		}
	}
	return out
}

func isJSONArray(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// buildRule validates and constructs one rule.Rule from its decoded JSON
// shape. It returns ok=false if the rule is unusable (duplicate
// rule_id, unknown check_type, missing required parameter, malformed
// composite requirement, or invalid status); the corresponding issue has
// already been collected.
func buildRule(source location.SourceID, filePath string, index int, doc ruleDoc, seen map[string]location.Span, collector *diag.Collector) (*rule.Rule, bool) {
	span := location.Span{Source: source}

	ruleID := rule.NormalizeIdentifier(doc.RuleID)
	if ruleID == "" {
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_CATALOG_PARSE,
			fmt.Sprintf("rule at index %d in %s has no rule_id", index, filePath)).
			WithSpan(span).
			Build())
		return nil, false
	}

	if prior, dup := seen[ruleID]; dup {
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_DUPLICATE_RULE_ID,
			fmt.Sprintf("rule_id %q is defined more than once", ruleID)).
			WithDetail(diag.DetailKeyRuleID, ruleID).
			WithSpan(span).
			WithRelated(location.RelatedInfo{Span: prior, Message: "previous definition"}).
			Build())
		return nil, false
	}
	seen[ruleID] = span

	status, ok := rule.ParseStatus(doc.Status)
	if !ok {
		collector.Collect(diag.NewIssue(diag.Fatal, diag.E_INVALID_STATUS,
			fmt.Sprintf("rule %q has unrecognized status %q", ruleID, doc.Status)).
			WithDetail(diag.DetailKeyRuleID, ruleID).
			WithDetail(diag.DetailKeyStatus, doc.Status).
			WithSpan(span).
			Build())
		return nil, false
	}

	criteria, ok := buildCriteria(ruleID, doc, collector, span)
	if !ok {
		return nil, false
	}

	return &rule.Rule{
		RuleID:                ruleID,
		ColumnID:              rule.NormalizeIdentifier(doc.ColumnID),
		CheckType:             doc.CheckType,
		ValidationCriteria:    criteria,
		ApplicabilityCriteria: rule.NewApplicabilityCriteria(doc.ApplicabilityCriteria...),
		RowCondition:          rule.RowCondition(doc.RowCondition),
		MustSatisfy:           doc.MustSatisfy,
		Status:                status,
		IsDynamic:             doc.IsDynamic,
		Span:                  span,
	}, true
}

// buildCriteria decodes and validates a rule's validation_criteria tree.
// Leaf check_types not registered in checks.Lookup, and leaves missing a
// required parameter, are fatal here rather than deferred to planner
// compile time, since a catalog that references a nonexistent check kind
// is malformed regardless of whether that rule is ever scheduled.
func buildCriteria(ruleID string, doc ruleDoc, collector *diag.Collector, span location.Span) (rule.Requirement, bool) {
	if doc.IsDynamic {
		// Dynamic rules never reach the check generator registry; the
		// planner compiles them straight to SKIPPED_DYNAMIC, so their
		// validation_criteria is carried through uninterpreted.
		req, err := decodeRootRequirement(doc.CheckType, doc.ValidationCriteria)
		if err != nil {
			collector.Collect(malformedRequirementIssue(ruleID, doc.CheckType, err, span))
			return nil, false
		}
		return req, true
	}

	req, err := decodeRootRequirement(doc.CheckType, doc.ValidationCriteria)
	if err != nil {
		collector.Collect(malformedRequirementIssue(ruleID, doc.CheckType, err, span))
		return nil, false
	}

	ok := true
	walkLeaves(req, func(leaf rule.LeafRequirement) {
		gen, found := checks.Lookup(leaf.CheckType)
		if !found {
			collector.Collect(diag.NewIssue(diag.Fatal, diag.E_UNKNOWN_CHECK_TYPE,
				fmt.Sprintf("rule %q references unknown check_type %q", ruleID, leaf.CheckType)).
				WithDetail(diag.DetailKeyRuleID, ruleID).
				WithDetail(diag.DetailKeyCheckType, leaf.CheckType).
				WithSpan(span).
				Build())
			ok = false
			return
		}
		if _, err := checks.ValidateParams(gen, leaf.Params); err != nil {
			missing, isMissing := err.(*checks.ErrMissingRequiredParam)
			param := ""
			if isMissing {
				param = missing.Param
			}
			collector.Collect(diag.NewIssue(diag.Fatal, diag.E_MISSING_REQUIRED_PARAM,
				fmt.Sprintf("rule %q: %s", ruleID, err.Error())).
				WithDetail(diag.DetailKeyRuleID, ruleID).
				WithDetail(diag.DetailKeyParam, param).
				WithSpan(span).
				Build())
			ok = false
		}
	})
	return req, ok
}

// walkLeaves visits every LeafRequirement reachable from req, recursing
// through AND/OR composites. Ref requirements are not leaves and are
// left to depgraph's dangling-reference check.
func walkLeaves(req rule.Requirement, visit func(rule.LeafRequirement)) {
	switch v := req.(type) {
	case rule.LeafRequirement:
		visit(v)
	case rule.AndRequirement:
		for _, child := range v.Children {
			walkLeaves(child, visit)
		}
	case rule.OrRequirement:
		for _, child := range v.Children {
			walkLeaves(child, visit)
		}
	}
}

func malformedRequirementIssue(ruleID, checkType string, err error, span location.Span) diag.Issue {
	return diag.NewIssue(diag.Fatal, diag.E_MALFORMED_REQUIREMENT,
		fmt.Sprintf("rule %q: malformed validation_criteria for check_type %q: %s", ruleID, checkType, err.Error())).
		WithDetail(diag.DetailKeyRuleID, ruleID).
		WithDetail(diag.DetailKeyCheckType, checkType).
		WithSpan(span).
		Build()
}

func parseError(source location.SourceID, filePath string, err error) diag.Issue {
	return diag.NewIssue(diag.Fatal, diag.E_CATALOG_PARSE,
		fmt.Sprintf("invalid JSON in %s: %s", filePath, err.Error())).
		WithSpan(location.Span{Source: source}).
		Build()
}
