// Package checks is the closed registry of check generators: one
// generator per FOCUS check_type, each producing a SQL query string for
// the query engine from a leaf rule's frozen parameters and an optional
// inherited row condition.
//
// The registry is closed by construction — [Lookup] returns
// (nil, false) for any check_type not in the registry. New check kinds are
// added by writing a new generator and registering it, never by
// evaluating rule-JSON-supplied SQL. Identifiers interpolated into
// generated SQL are validated against [ValidIdentifier]; string literals
// are escaped via [Lit]. These two primitives are the sole
// injection boundary between catalog content and generated SQL.
package checks
