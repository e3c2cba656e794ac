package querygraph

import (
	"github.com/cuemby/graphdb/internal/catalog"
)

// QueryNode is one MATCH-pattern node variable (spec §4.6).
type QueryNode struct {
	Name  string
	Label string // empty if unlabeled
}

// QueryRel is one MATCH-pattern relationship variable.
type QueryRel struct {
	Name      string
	Src, Dst  int // index into Graph.Nodes
	Label     string
	Direction catalog.RelDirection
	Bound     bool // true if src and dst are the same query node (self-loop)

	// Variable reports a variable-length hop pattern (`*lower..upper`);
	// when false this is an ordinary single-hop edge and Lower/Upper/
	// TrackPath are unused. Lower/Upper bound the traversal depth and
	// TrackPath requests full path materialization (spec §4.8).
	Variable  bool
	Lower     int
	Upper     int
	TrackPath bool
}

// Graph is the full query graph a MATCH clause describes: the
// universe of nodes/rels the enumerator's subquery graphs are subsets
// of.
type Graph struct {
	Nodes []QueryNode
	Rels  []QueryRel
}

func (g *Graph) AddNode(n QueryNode) int {
	g.Nodes = append(g.Nodes, n)
	return len(g.Nodes) - 1
}

func (g *Graph) AddRel(r QueryRel) int {
	g.Rels = append(g.Rels, r)
	return len(g.Rels) - 1
}

// RelsTouching returns the indices of rels with an endpoint in nodeIdx.
func (g *Graph) RelsTouching(nodeIdx int) []int {
	var out []int
	for i, r := range g.Rels {
		if r.Src == nodeIdx || r.Dst == nodeIdx {
			out = append(out, i)
		}
	}
	return out
}
