/*
Package querygraph implements the query-graph model of spec §4.6: a
set of QueryNodes and QueryRels, and the SubqueryGraph bitset pairs the
plan enumerator folds dynamic programming over.

Selected-node and selected-rel sets are github.com/RoaringBitmap/roaring/v2
bitmaps rather than Go's stdlib bitset: subquery graphs are compared
and combined (union on extend, on binary join) far more often than
they are iterated element-by-element, and roaring's run-length
compression keeps the enumerator's memo table (internal/plan/enumerate)
cheap to key by bitmap bytes even for wide queries with many query
nodes.
*/
package querygraph
