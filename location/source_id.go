// Package location identifies where in a rule catalog document a diagnostic
// originates: which source document, and which line/column within it.
//
// Unlike a schema-import graph, a rule catalog has no cross-document
// references that require filesystem canonicalization, so SourceID here is
// a plain interned name (a catalog file path or a synthetic identifier like
// "inline:test") rather than a symlink-resolved canonical path.
package location

// SourceID identifies the document a diagnostic came from: a catalog file
// path, or a synthetic identifier for in-memory or test fixtures.
//
// SourceID is a value type and is safe for use as a map key.
type SourceID struct {
	name string
}

// NewSourceID creates a SourceID from an arbitrary identifier, e.g. a catalog
// file path ("rules/version_sets/1.0/BilledCost.json") or a synthetic name
// ("inline:test").
func NewSourceID(name string) SourceID {
	return SourceID{name: name}
}

// MustNewSourceID creates a SourceID from an arbitrary identifier.
//
// It is equivalent to [NewSourceID]: any string is a valid identifier, so
// neither function can fail, and neither returns an error. MustNewSourceID
// is kept for call sites, notably tests, written in the Must form.
func MustNewSourceID(name string) SourceID {
	return NewSourceID(name)
}

// String returns the identifier.
func (s SourceID) String() string {
	return s.name
}

// IsZero reports whether this is the zero-value SourceID.
func (s SourceID) IsZero() bool {
	return s.name == ""
}
