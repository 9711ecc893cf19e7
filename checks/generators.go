package checks

import (
	"fmt"
	"strings"

	"github.com/finops-validate/focuscheck/rule"
)

// registry is the closed map from check_type to generator. New check
// kinds are added here, never by evaluating rule-JSON-supplied SQL.
var registry = map[string]generatorSpec{
	"column_required": {
		requiredKeys: []string{"column"},
		generate:     generateColumnRequired,
	},
	"column_allowed": {
		requiredKeys: []string{"column"},
		generate:     generateColumnAllowed,
	},
	"type_string": {
		requiredKeys: []string{"column"},
		generate:     generateTypeCheck([]string{"VARCHAR"}),
	},
	"type_decimal": {
		requiredKeys: []string{"column"},
		generate:     generateTypeCheck([]string{"DECIMAL", "DOUBLE", "BIGINT"}),
	},
	"type_datetime": {
		requiredKeys: []string{"column"},
		generate:     generateTypeCheck([]string{"TIMESTAMP", "TIMESTAMP WITH TIME ZONE"}),
	},
	"type_boolean": {
		requiredKeys: []string{"column"},
		generate:     generateTypeCheck([]string{"BOOLEAN"}),
	},
	"format_datetime": {
		requiredKeys: []string{"column", "format"},
		generate:     generateFormatDatetime,
	},
	"allowed_values": {
		requiredKeys: []string{"column", "values"},
		generate:     generateAllowedValues,
	},
	"value_in": {
		requiredKeys: []string{"column", "values"},
		generate:     generateAllowedValues,
	},
	"value_not_null": {
		requiredKeys: []string{"column"},
		generate:     generateValueNotNull,
	},
	"regex_match": {
		requiredKeys: []string{"column", "pattern"},
		generate:     generateRegexMatch,
	},
	"dimension_values": {
		requiredKeys: []string{"column", "values"},
		defaults:     map[string]string{"case_sensitive": "false"},
		generate:     generateDimensionValues,
	},
	"uuid_format": {
		requiredKeys: []string{"column"},
		generate:     generateUUIDFormat,
	},
	"unique_values": {
		requiredKeys: []string{"column"},
		generate:     generateUniqueValues,
	},
}

func requireColumn(params rule.Params) (string, error) {
	column, ok := params.Get("column")
	if !ok {
		return "", &ErrMissingRequiredParam{Param: "column"}
	}
	if !ValidIdentifier(column) {
		return "", fmt.Errorf("invalid column identifier %q", column)
	}
	return column, nil
}

// generateColumnRequired queries the query engine's information_schema
// for the column's presence; violation count is 0 or 1.
func generateColumnRequired(params rule.Params, _ string) (string, error) {
	column, ok := params.Get("column")
	if !ok {
		return "", &ErrMissingRequiredParam{Param: "column"}
	}
	message := Lit(fmt.Sprintf("required column %s is missing from the dataset", column))
	return fmt.Sprintf(
		`SELECT CASE WHEN COUNT(*) = 0 THEN 1 ELSE 0 END AS violations, `+
			`CASE WHEN COUNT(*) = 0 THEN %s ELSE NULL END AS error_message FROM information_schema.columns `+
			`WHERE table_name = 'focus_data' AND column_name = %s`,
		message, Lit(column),
	), nil
}

// generateColumnAllowed is the inverse of column_required: it flags a
// deprecated or disallowed column's continued presence in the dataset.
func generateColumnAllowed(params rule.Params, _ string) (string, error) {
	column, ok := params.Get("column")
	if !ok {
		return "", &ErrMissingRequiredParam{Param: "column"}
	}
	message := Lit(fmt.Sprintf("disallowed column %s is present in the dataset", column))
	return fmt.Sprintf(
		`SELECT COUNT(*) AS violations, CASE WHEN COUNT(*) > 0 THEN %s ELSE NULL END AS error_message `+
			`FROM information_schema.columns `+
			`WHERE table_name = 'focus_data' AND column_name = %s`,
		message, Lit(column),
	), nil
}

// generateTypeCheck builds a generator counting rows whose runtime type
// (via the query engine's typeof()) falls outside the allowed set.
func generateTypeCheck(allowed []string) func(rule.Params, string) (string, error) {
	return func(params rule.Params, inherited string) (string, error) {
		column, err := requireColumn(params)
		if err != nil {
			return "", err
		}
		own := fmt.Sprintf("%s IS NOT NULL AND typeof(%s) NOT IN %s", column, column, LitList(allowed))
		return countQuery(whereClause(inherited, own)), nil
	}
}

func generateFormatDatetime(params rule.Params, inherited string) (string, error) {
	column, err := requireColumn(params)
	if err != nil {
		return "", err
	}
	format, ok := params.Get("format")
	if !ok {
		return "", &ErrMissingRequiredParam{Param: "format"}
	}
	own := fmt.Sprintf(
		"%s IS NOT NULL AND try_strptime(%s, %s) IS NULL",
		column, column, Lit(format),
	)
	return countQuery(whereClause(inherited, own)), nil
}

func generateAllowedValues(params rule.Params, inherited string) (string, error) {
	column, err := requireColumn(params)
	if err != nil {
		return "", err
	}
	values, ok := params.Get("values")
	if !ok {
		return "", &ErrMissingRequiredParam{Param: "values"}
	}
	own := fmt.Sprintf("%s IS NOT NULL AND %s NOT IN %s", column, column, valuesList(values))
	return countQuery(whereClause(inherited, own)), nil
}

func generateValueNotNull(params rule.Params, inherited string) (string, error) {
	column, err := requireColumn(params)
	if err != nil {
		return "", err
	}
	own := fmt.Sprintf("%s IS NULL", column)
	message := fmt.Sprintf("%s contains NULL values", column)
	return countQueryWithMessage(whereClause(inherited, own), message), nil
}

func generateRegexMatch(params rule.Params, inherited string) (string, error) {
	column, err := requireColumn(params)
	if err != nil {
		return "", err
	}
	pattern, ok := params.Get("pattern")
	if !ok {
		return "", &ErrMissingRequiredParam{Param: "pattern"}
	}
	own := fmt.Sprintf("%s IS NOT NULL AND NOT regexp_matches(%s, %s)", column, column, Lit(pattern))
	return countQuery(whereClause(inherited, own)), nil
}

func generateDimensionValues(params rule.Params, inherited string) (string, error) {
	column, err := requireColumn(params)
	if err != nil {
		return "", err
	}
	values, ok := params.Get("values")
	if !ok {
		return "", &ErrMissingRequiredParam{Param: "values"}
	}
	caseSensitive, _ := params.Get("case_sensitive")

	col := column
	list := valuesList(values)
	if caseSensitive != "true" {
		col = "upper(" + column + ")"
		list = upperValuesList(values)
	}
	own := fmt.Sprintf("%s IS NOT NULL AND %s NOT IN %s", column, col, list)
	return countQuery(whereClause(inherited, own)), nil
}

func generateUUIDFormat(params rule.Params, inherited string) (string, error) {
	column, err := requireColumn(params)
	if err != nil {
		return "", err
	}
	own := fmt.Sprintf(
		"%s IS NOT NULL AND NOT regexp_matches(%s, '^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$')",
		column, column,
	)
	return countQuery(whereClause(inherited, own)), nil
}

func generateUniqueValues(params rule.Params, inherited string) (string, error) {
	column, err := requireColumn(params)
	if err != nil {
		return "", err
	}
	from := TableNamePlaceholder
	where := whereClause(inherited, column+" IS NOT NULL")
	message := Lit(fmt.Sprintf("%s contains duplicate values", column))
	return fmt.Sprintf(
		`SELECT COALESCE(SUM(dup_count - 1), 0) AS violations, `+
			`CASE WHEN COALESCE(SUM(dup_count - 1), 0) > 0 THEN %s ELSE NULL END AS error_message `+
			`FROM (SELECT COUNT(*) AS dup_count FROM %s %s GROUP BY %s HAVING COUNT(*) > 1) dups`,
		message, from, where, column,
	), nil
}

// valuesList splits a comma-separated catalog "values" parameter and
// renders it as an escaped SQL literal list.
func valuesList(csv string) string {
	return LitList(splitCSV(csv))
}

func upperValuesList(csv string) string {
	items := splitCSV(csv)
	upper := make([]string, len(items))
	for i, v := range items {
		upper[i] = strings.ToUpper(v)
	}
	return LitList(upper)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
