// Package graph opens and owns the on-disk node/rel storage for every
// label a catalog defines: per-label property columns, the primary-key
// hash index where one is declared, and the forward/backward adjacency
// structure for every rel label — an AdjColumn when that direction's
// cardinality caps fan-out at one, an AdjLists otherwise (spec §4.2).
//
// It is the concrete backing the physical mapper's Resources interface
// and the CREATE/SET/DELETE write path both draw on; nothing here
// decides query shape, it only knows how one label's data is laid out.
package graph
