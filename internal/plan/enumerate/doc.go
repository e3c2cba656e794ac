/*
Package enumerate implements the bottom-up DP plan enumerator of spec
§4.6: size-k subgraph extension (single-node join) and binary join over
previously enumerated subgraphs, keeping the best plan per subquery
graph by estimated cost.

The memo (best plan per subquery graph, by size) is a
github.com/google/btree BTreeG ordered by querygraph.SubqueryGraph.Key
— selected-node cardinality first, then the two bitmaps' serialized
bytes — so enumerate_plans can replay candidates in a deterministic
order without re-sorting a map on every query, the role
internal/plan/querygraph's doc comment also grounds on erigon's use of
google/btree for ordered in-memory indices.
*/
package enumerate
