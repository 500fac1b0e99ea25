// Package order implements the order aggregate and its lifecycle state
// machine. An order moves along a constrained directed path from creation
// through pickup, vendor processing, and delivery to completion, with
// cancellation reachable from any non-terminal state.
//
// The package also owns the translation layer between the canonical status
// vocabulary and the legacy vocabulary used by older callers and persisted
// records. The stored status is always canonical; the legacy rendering is a
// one-directional presentation concern.
package order
