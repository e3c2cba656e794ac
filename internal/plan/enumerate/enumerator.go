package enumerate

import (
	"fmt"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/plan/querygraph"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// Stats supplies the row-count/cardinality estimates the cost model
// needs; the catalog is the natural source (label max-offset as a
// node scan estimate, rel-label cardinality as a join fan-out hint).
type Stats struct {
	NodeLabelCardinality func(label string) float64
	RelFanOut            func(label string, cardinality catalog.Cardinality) float64
}

// Enumerator runs the bottom-up DP described in spec §4.6.
type Enumerator struct {
	graph *querygraph.Graph
	stats Stats
	memo  *Memo
}

func New(graph *querygraph.Graph, stats Stats) *Enumerator {
	return &Enumerator{graph: graph, stats: stats, memo: NewMemo()}
}

// bucket tracks, per distinct subgraph key, the best candidate seen
// at the current size — separate from the global memo so later sizes
// can iterate only their own generation's candidates.
type bucket map[string]*Candidate

func (b bucket) put(memo *Memo, c *Candidate) {
	memo.Put(c)
	best, _ := memo.Get(c.Graph)
	b[string(c.Graph.Key())] = best
}

func (b bucket) values() []*Candidate {
	out := make([]*Candidate, 0, len(b))
	for _, c := range b {
		out = append(out, c)
	}
	return out
}

// Enumerate runs the full size-1..N DP and returns the best plan for
// the complete query graph.
func (e *Enumerator) Enumerate() (*Candidate, error) {
	n := len(e.graph.Nodes)
	if n == 0 {
		return nil, dberr.New(dberr.KindPlanError, "empty query graph")
	}

	bySize := make([]bucket, n+1)
	bySize[1] = bucket{}
	for i, node := range e.graph.Nodes {
		sg := querygraph.SingleNode(i)
		card := e.stats.NodeLabelCardinality(node.Label)
		c := &Candidate{
			Graph:       sg,
			Operators:   []string{fmt.Sprintf("ScanNodeID(%s)", node.Label)},
			Cardinality: card,
			Cost:        card,
		}
		bySize[1].put(e.memo, c)
	}

	for k := 2; k <= n; k++ {
		bySize[k] = bucket{}
		e.extendFromSmaller(bySize, k)
		e.joinPairs(bySize, k)
		if len(bySize[k]) == 0 {
			return nil, dberr.New(dberr.KindPlanError, "query graph is disconnected at size %d", k)
		}
	}

	best := e.bestOf(bySize[n].values())
	if best == nil {
		return nil, dberr.New(dberr.KindPlanError, "no plan covers the full query graph")
	}
	return best, nil
}

// extendFromSmaller performs the single-node join extension: for
// every size k-1 subgraph, extend by one rel whose endpoint touches
// it but is not yet part of it.
func (e *Enumerator) extendFromSmaller(bySize []bucket, k int) {
	for _, base := range bySize[k-1].values() {
		var touched []int
		base.Graph.Nodes.Iterate(func(x uint32) bool {
			touched = append(touched, e.graph.RelsTouching(int(x))...)
			return true
		})
		seen := map[int]bool{}
		for _, relIdx := range touched {
			if seen[relIdx] || base.Graph.Rels.Contains(uint32(relIdx)) {
				continue
			}
			seen[relIdx] = true

			rel := e.graph.Rels[relIdx]
			var joinNode int
			switch {
			case base.Graph.Nodes.Contains(uint32(rel.Src)) && !base.Graph.Nodes.Contains(uint32(rel.Dst)):
				joinNode = rel.Dst
			case base.Graph.Nodes.Contains(uint32(rel.Dst)) && !base.Graph.Nodes.Contains(uint32(rel.Src)):
				joinNode = rel.Src
			default:
				continue // both endpoints already selected: not a fresh extension
			}

			sg := base.Graph.ExtendWithRel(relIdx, joinNode)
			fanOut := e.stats.RelFanOut(rel.Label, catalog.ManyToMany)
			card := base.Cardinality * fanOut
			cand := &Candidate{
				Graph:       sg,
				Operators:   append(append([]string{}, base.Operators...), fmt.Sprintf("Extend(%s)", rel.Name)),
				Cardinality: card,
				Cost:        base.Cost + card,
			}
			bySize[k].put(e.memo, cand)
		}
	}
}

// joinPairs performs the binary join: combine a size-i and size-(k-i)
// subgraph sharing exactly one node.
func (e *Enumerator) joinPairs(bySize []bucket, k int) {
	for i := 1; i < k; i++ {
		j := k - i
		if j < 1 || i > j {
			continue
		}
		for _, left := range bySize[i].values() {
			for _, right := range bySize[j].values() {
				if left.Graph.SharedNodeCount(right.Graph) != 1 {
					continue
				}
				sg := left.Graph.UnionWith(right.Graph)
				if sg.Size() != k {
					continue
				}
				card := left.Cardinality * right.Cardinality
				ops := append(append([]string{}, left.Operators...), right.Operators...)
				ops = append(ops, "HashJoinProbe")
				cand := &Candidate{
					Graph:       sg,
					Operators:   ops,
					Cardinality: card,
					Cost:        left.Cost + right.Cost + card,
				}
				bySize[k].put(e.memo, cand)
			}
		}
	}
}

func (e *Enumerator) bestOf(cands []*Candidate) *Candidate {
	var best *Candidate
	for _, c := range cands {
		if best == nil || Less(c, best) {
			best = c
		}
	}
	return best
}
