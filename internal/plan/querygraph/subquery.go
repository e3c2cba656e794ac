package querygraph

import (
	"bytes"

	"github.com/RoaringBitmap/roaring/v2"
)

// SubqueryGraph is two bitsets — selected query nodes and selected
// query rels — and is equality-comparable purely by those bitsets
// (spec §3).
type SubqueryGraph struct {
	Nodes *roaring.Bitmap
	Rels  *roaring.Bitmap
}

func NewSubqueryGraph() *SubqueryGraph {
	return &SubqueryGraph{Nodes: roaring.New(), Rels: roaring.New()}
}

func SingleNode(nodeIdx int) *SubqueryGraph {
	s := NewSubqueryGraph()
	s.Nodes.Add(uint32(nodeIdx))
	return s
}

// ExtendWithRel returns a new subquery graph extended by relIdx and
// its not-yet-selected endpoint joinNode (the "single-node join"
// extension of spec §4.6).
func (s *SubqueryGraph) ExtendWithRel(relIdx, joinNode int) *SubqueryGraph {
	out := &SubqueryGraph{Nodes: s.Nodes.Clone(), Rels: s.Rels.Clone()}
	out.Rels.Add(uint32(relIdx))
	out.Nodes.Add(uint32(joinNode))
	return out
}

// UnionWith returns the binary-join combination of s and other,
// sharing exactly one node (the join node is not validated here; the
// enumerator only calls this for subgraph pairs it has already
// checked share precisely one selected node).
func (s *SubqueryGraph) UnionWith(other *SubqueryGraph) *SubqueryGraph {
	return &SubqueryGraph{
		Nodes: roaring.Or(s.Nodes, other.Nodes),
		Rels:  roaring.Or(s.Rels, other.Rels),
	}
}

// SharedNodeCount returns how many query nodes s and other have in
// common — the binary-join candidate test requires exactly 1.
func (s *SubqueryGraph) SharedNodeCount(other *SubqueryGraph) uint64 {
	return roaring.And(s.Nodes, other.Nodes).GetCardinality()
}

func (s *SubqueryGraph) Size() int {
	return int(s.Nodes.GetCardinality())
}

// Key returns a canonical byte key for memo-table ordering: node
// cardinality followed by the two bitmaps' serialized bytes, matching
// SPEC_FULL.md's "(selected_nodes_cardinality, bitmap_bytes)" ordering
// key for the btree-backed memo.
func (s *SubqueryGraph) Key() []byte {
	nb, _ := s.Nodes.ToBytes()
	rb, _ := s.Rels.ToBytes()
	key := make([]byte, 8, 8+len(nb)+len(rb))
	card := s.Nodes.GetCardinality()
	for i := 0; i < 8; i++ {
		key[i] = byte(card >> (8 * (7 - i)))
	}
	key = append(key, nb...)
	key = append(key, rb...)
	return key
}

// Equal reports bitset equality (spec §3: "equality-comparable by
// those bitsets").
func (s *SubqueryGraph) Equal(other *SubqueryGraph) bool {
	return bytes.Equal(s.Key(), other.Key())
}
