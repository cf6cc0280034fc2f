// Package merge interleaves annotation blocks with the lines of a rendered
// base document.
//
// Each distinct section key is rendered once, as a single block placed
// immediately before the first line carrying that anchor id. Global
// annotations precede the first line. Keys that never match a line are
// collected into one trailing orphan block and reported.
//
// All mutable state of a merge (the erratum anchor counter, the pending
// keys, the latest annotation date) lives in one call to Merge, so
// documents can be merged in parallel with a shared Engine.
package merge
