// Package match implements one-to-one greedy matching between two entity
// collections.
//
// Match scores the full cross product of sources and destinations, keeps
// the candidates whose ratio is strictly above the threshold, and commits
// them best first. A committed candidate consumes its source and its
// destination, so the result is always one-to-one. Ties are broken by the
// base order of the entities (schema.Key.Compare), which makes the result
// reproducible for identical inputs.
//
// Key types:
//   - Score: a scored source/destination pair with auxiliary diagnostics
//   - Result: committed pairs plus the leftovers on both sides
//   - Func: the pairwise scoring function
package match
