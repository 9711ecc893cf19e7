package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/finops-validate/focuscheck/rule"
)

// ruleDoc mirrors one rule object in a catalog JSON document, before any
// validation or type-checking against the check generator registry.
type ruleDoc struct {
	RuleID                string          `json:"rule_id"`
	ColumnID              string          `json:"column_id"`
	CheckType             string          `json:"check_type"`
	ValidationCriteria    json.RawMessage `json:"validation_criteria"`
	ApplicabilityCriteria []string        `json:"applicability_criteria"`
	RowCondition          string          `json:"row_condition"`
	MustSatisfy           string          `json:"must_satisfy"`
	Status                string          `json:"status"`
	IsDynamic             bool            `json:"is_dynamic"`
}

// requirementDoc is the shape of a validation_criteria value (at the rule
// root, or nested inside a composite's children array). check_type
// decides how the remaining fields are interpreted:
//
//   - "composite_and" / "composite_or": Children holds an ordered list of
//     nested requirementDoc values.
//   - "model_rule_reference": RuleID names the referenced rule.
//   - any other (leaf) check_type: Params holds the check's
//     validation_criteria arguments.
type requirementDoc struct {
	CheckType string            `json:"check_type"`
	Params    map[string]string `json:"params"`
	Children  []requirementDoc  `json:"children"`
	RuleID    string            `json:"rule_id"`
}

const (
	checkTypeCompositeAnd       = "composite_and"
	checkTypeCompositeOr        = "composite_or"
	checkTypeModelRuleReference = "model_rule_reference"
)

// decodeRootRequirement builds the top-level Requirement for a rule from
// its outer check_type and its validation_criteria payload. The rule's
// own check_type (not a field inside validation_criteria) decides
// whether the payload is read as composite children, a reference, or
// leaf params.
func decodeRootRequirement(checkType string, raw json.RawMessage) (rule.Requirement, error) {
	switch checkType {
	case checkTypeCompositeAnd, checkTypeCompositeOr:
		var body struct {
			Children []requirementDoc `json:"children"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decoding %s validation_criteria: %w", checkType, err)
		}
		return decodeComposite(checkType, body.Children)
	case checkTypeModelRuleReference:
		var body struct {
			RuleID string `json:"rule_id"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decoding model_rule_reference validation_criteria: %w", err)
		}
		if body.RuleID == "" {
			return nil, fmt.Errorf("model_rule_reference validation_criteria missing rule_id")
		}
		return rule.NewRef(rule.NormalizeIdentifier(body.RuleID)), nil
	default:
		var body struct {
			Params map[string]string `json:"params"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("decoding %s validation_criteria: %w", checkType, err)
		}
		return rule.NewLeaf(checkType, rule.NewParams(body.Params)), nil
	}
}

// decodeChildRequirement builds a Requirement for one composite child
// item, dispatching on the child's own check_type exactly as
// decodeRootRequirement does for a rule root.
func decodeChildRequirement(doc requirementDoc) (rule.Requirement, error) {
	switch doc.CheckType {
	case checkTypeCompositeAnd, checkTypeCompositeOr:
		return decodeComposite(doc.CheckType, doc.Children)
	case checkTypeModelRuleReference:
		if doc.RuleID == "" {
			return nil, fmt.Errorf("model_rule_reference child missing rule_id")
		}
		return rule.NewRef(rule.NormalizeIdentifier(doc.RuleID)), nil
	case "":
		return nil, fmt.Errorf("composite child missing check_type")
	default:
		return rule.NewLeaf(doc.CheckType, rule.NewParams(doc.Params)), nil
	}
}

func decodeComposite(checkType string, children []requirementDoc) (rule.Requirement, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("%s requires at least one child", checkType)
	}
	out := make([]rule.Requirement, len(children))
	for i, child := range children {
		req, err := decodeChildRequirement(child)
		if err != nil {
			return nil, fmt.Errorf("child[%d]: %w", i, err)
		}
		out[i] = req
	}
	if checkType == checkTypeCompositeAnd {
		return rule.NewAnd(out...), nil
	}
	return rule.NewOr(out...), nil
}
