// Package depgraph builds and resolves the dependency graph over a rule
// catalog: seeding a closure from an optional rule_id prefix, walking
// each rule's validation_criteria tree to discover model_rule_reference
// edges, propagating AND-composite row conditions to their descendants,
// and detecting reference cycles before a [Graph] is handed to planner.
//
// Graph nodes are rule_ids. A nested inline composite or leaf inside a
// rule's validation_criteria tree (one that is not a [rule.RefRequirement])
// is not itself a graph node — it has no independent report entry and is
// evaluated in place as part of compiling its owning rule's check. Only
// [rule.RefRequirement] children create edges, since they are the only
// requirement shape that names another rule_id.
package depgraph
