package engine

import (
	"regexp"
	"sort"
)

// missingColumnPatterns is the ordered set of regexes tried against a
// query-engine error message to extract the name of a column the check
// referenced that does not exist in the loaded table. Ordered roughly
// from most to least specific to the query engine's own message shape;
// all patterns are tried regardless of which one matches first, since a
// single error message is expected to match at most one of them.
var missingColumnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Column with name "?([A-Za-z0-9_]+)"?\s+does not exist`),
	regexp.MustCompile(`Binder Error:.*column "?([A-Za-z0-9_]+)"?`),
	regexp.MustCompile(`"([A-Za-z0-9_]+)"\s+not found`),
}

// extractMissingColumns scans msg for identifiers named in a
// missing-column error, deduplicated and sorted for deterministic
// diagnostics. Returns nil if msg does not match any known
// missing-column shape.
func extractMissingColumns(msg string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range missingColumnPatterns {
		for _, m := range pattern.FindAllStringSubmatch(msg, -1) {
			if len(m) < 2 {
				continue
			}
			col := m[1]
			if !seen[col] {
				seen[col] = true
				out = append(out, col)
			}
		}
	}
	sort.Strings(out)
	return out
}
