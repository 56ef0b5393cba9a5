// Package memo holds the memoization tables that sit between the task planner
// and the companion path planner.
//
// A Table pairs a CellIndex, which hands out dense ids to cell names in
// first-seen order, with a PairCache, a square table of optional values
// indexed by two of those ids. Registering a new name grows the cache by one
// row and one column; registering a known name does nothing. Values are never
// evicted during a session.
//
// None of the types in this package are safe for concurrent use. The bridge
// has a single writer, the planner thread issuing queries.
package memo
