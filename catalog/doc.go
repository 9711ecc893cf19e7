// Package catalog loads a versioned FOCUS rule catalog from a filesystem
// tree into typed rule.Rule values.
//
// A version directory (rules/version_sets/<version>/) holds either one
// aggregated JSON document (a top-level array of rule objects) or many
// per-rule documents (one rule object per file); both shapes are
// accepted without configuration, since the loader inspects the root
// token of each file before deciding how to decode it.
//
// Load is a pure function of its inputs: the same fs.FS content and
// version string always produce the same []*rule.Rule slice (field
// order included). Malformed input is reported through the returned
// diag.Result; the returned slice holds only the rules that passed
// validation, so a catalog with problems yields the valid subset of its
// rules alongside those issues.
package catalog
