package checks

import (
	"regexp"
	"strings"
)

// identifierPattern is the sole shape a column name or other
// SQL identifier may take before it is interpolated into generated SQL.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to interpolate into generated
// SQL as a bare identifier (column name, table name). This is the only
// gate standing between catalog-supplied strings and the generated query;
// every generator must run column identifiers through it before use.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Lit safely quotes and escapes a string for use as a SQL string literal.
// Embedded single quotes are doubled per standard SQL escaping.
func Lit(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// LitList renders a comma-separated, parenthesized list of quoted string
// literals, for use in a SQL `IN (...)` / `NOT IN (...)` clause.
func LitList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Lit(v)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}
