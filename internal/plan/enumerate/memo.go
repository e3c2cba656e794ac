package enumerate

import (
	"bytes"

	"github.com/google/btree"

	"github.com/cuemby/graphdb/internal/plan/querygraph"
)

// Candidate is the best known plan for one subquery graph: an ordered
// operator-name sequence (for tie-break hashing and physical mapping)
// plus the cost model's estimates.
type Candidate struct {
	Graph       *querygraph.SubqueryGraph
	Operators   []string
	Cardinality float64
	Cost        float64
}

func (c *Candidate) operatorCount() int { return len(c.Operators) }

// Less orders by estimated cost first; equal costs fall to the
// deterministic tie-break: estimated cardinality, then operator count,
// then a byte-wise comparison of the canonical operator sequence (spec §4.6: "Tie-breaking is deterministic on
// (estimated cardinality, operator count, hash of canonical operator
// sequence)").
func Less(a, b *Candidate) bool {
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if a.Cardinality != b.Cardinality {
		return a.Cardinality < b.Cardinality
	}
	if a.operatorCount() != b.operatorCount() {
		return a.operatorCount() < b.operatorCount()
	}
	return bytes.Compare(opSequenceBytes(a.Operators), opSequenceBytes(b.Operators)) < 0
}

func opSequenceBytes(ops []string) []byte {
	var buf bytes.Buffer
	for _, op := range ops {
		buf.WriteString(op)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

type memoEntry struct {
	key       []byte
	candidate *Candidate
}

func entryLess(a, b memoEntry) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Memo is the enumerator's best-plan-per-subgraph table, ordered by
// querygraph.SubqueryGraph.Key so enumerate_plans can walk it without
// a fresh sort on every call.
type Memo struct {
	tree *btree.BTreeG[memoEntry]
}

func NewMemo() *Memo {
	return &Memo{tree: btree.NewG(32, entryLess)}
}

// Get returns the current best candidate for graph, if any.
func (m *Memo) Get(graph *querygraph.SubqueryGraph) (*Candidate, bool) {
	item, ok := m.tree.Get(memoEntry{key: graph.Key()})
	if !ok {
		return nil, false
	}
	return item.candidate, true
}

// Put inserts c if no entry exists yet for its graph, or replaces the
// existing one iff c is strictly better (Less(c, existing)).
func (m *Memo) Put(c *Candidate) {
	key := c.Graph.Key()
	existing, ok := m.tree.Get(memoEntry{key: key})
	if ok && !Less(c, existing.candidate) {
		return
	}
	m.tree.ReplaceOrInsert(memoEntry{key: key, candidate: c})
}

// Ascend visits every memo entry in key order.
func (m *Memo) Ascend(visit func(*Candidate) bool) {
	m.tree.Ascend(func(e memoEntry) bool {
		return visit(e.candidate)
	})
}

func (m *Memo) Len() int { return m.tree.Len() }
