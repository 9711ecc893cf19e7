package location

// RelatedInfo attaches a secondary location and message to an issue, e.g. the
// span of an earlier rule_id definition when reporting a duplicate.
type RelatedInfo struct {
	Span    Span
	Message string
}
