// Package planner turns a resolved [depgraph.Graph] into a layered
// [Plan]: it marks rules non-applicable per the dataset-global
// applicability set (hierarchically — a rule whose only path from a
// root passes through a non-applicable parent is itself non-applicable),
// applies the draft-skip policy, computes a topological layering via
// Kahn's algorithm with lexicographic tie-breaking, and compiles each
// scheduled leaf's SQL and each scheduled composite's combinator tree.
package planner
