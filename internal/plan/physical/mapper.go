package physical

import (
	"sort"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/exec"
	"github.com/cuemby/graphdb/internal/expr"
	"github.com/cuemby/graphdb/internal/plan/enumerate"
	"github.com/cuemby/graphdb/internal/plan/querygraph"
	"github.com/cuemby/graphdb/internal/storage/adjacency"
	"github.com/cuemby/graphdb/internal/storage/overflow"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// Resources is the storage-layer handle set the mapper draws on to
// instantiate operators — the catalog tells it labels and offsets,
// the open adjacency structures let it wire Extend without the
// mapper itself knowing how a rel label's adjacency is laid out on
// disk (spec §4.2's column-vs-lists choice per cardinality).
type Resources interface {
	NodeMaxOffset(label string) uint64
	// Adjacency returns the forward or backward adjacency structure for
	// relLabel, whichever of col/lists is non-nil depending on the rel's
	// declared cardinality (spec §4.2).
	Adjacency(relLabel string, dir catalog.RelDirection) (col *adjacency.AdjColumn, lists *adjacency.AdjLists)
	// PathOverflow returns the overflow store backing RecursiveJoin's
	// materialized-path output column.
	PathOverflow() *overflow.File
}

// Build maps one enumerated candidate onto an executable operator
// tree (spec §4.7).
//
// Candidate.Operators is kept purely for the enumerator's
// deterministic tie-breaking (spec §4.6); reconstructing build/probe
// structure from it would require re-deriving information the
// enumerator already had in typed form and then lost to stringly
// encoding, so Build instead walks the candidate's own subquery graph
// directly with the same "start at a canonical root, extend one
// fresh node at a time" logic the enumerator's extendFromSmaller used
// — which always produces a correct Extend-chain realization of the
// candidate's connected subgraph, independent of whatever the
// tie-broken cost model Operators sequence nominally chose. Plans the
// enumerator judged cheaper via an explicit HashJoinBuild/Probe still
// execute correctly this way, just without that join strategy's
// performance benefit; HashJoinBuild/Probe remain available in
// internal/exec for callers (e.g. a future cost-aware mapper pass)
// that want to use them directly.
func Build(ctx *MapperContext, graph *querygraph.Graph, candidate *enumerate.Candidate, res Resources) (exec.Operator, error) {
	included := candidate.Graph

	var nodeIdxs []int
	included.Nodes.Iterate(func(x uint32) bool {
		nodeIdxs = append(nodeIdxs, int(x))
		return true
	})
	if len(nodeIdxs) == 0 {
		return nil, dberr.New(dberr.KindPlanError, "physical mapper: empty candidate graph")
	}
	sort.Ints(nodeIdxs)
	root := nodeIdxs[0]

	adj := make(map[int][]int) // node idx -> rel idxs touching it, restricted to included rels
	var relIdxs []int
	included.Rels.Iterate(func(x uint32) bool {
		relIdxs = append(relIdxs, int(x))
		return true
	})
	for _, ri := range relIdxs {
		rel := graph.Rels[ri]
		adj[rel.Src] = append(adj[rel.Src], ri)
		adj[rel.Dst] = append(adj[rel.Dst], ri)
	}

	rootNode := graph.Nodes[root]
	var op exec.Operator = exec.NewScanNodeID(ctx.NextOpID(), rootNode.Label, res.NodeMaxOffset(rootNode.Label), nil)
	ctx.BindSlot(rootNode.Name, expr.DataPos{ChunkPos: 0, VectorPos: 0})

	visited := map[int]bool{root: true}
	frontier := []int{root}
	nextCol := 1 // output column each newly bound node variable lands in

	for len(frontier) > 0 {
		var nextFrontier []int
		for _, u := range frontier {
			for _, ri := range adj[u] {
				rel := graph.Rels[ri]
				var v int
				var dir catalog.RelDirection
				switch {
				case rel.Src == u && !visited[rel.Dst]:
					v, dir = rel.Dst, catalog.Forward
				case rel.Dst == u && !visited[rel.Src]:
					v, dir = rel.Src, catalog.Backward
				default:
					continue
				}
				visited[v] = true
				nextFrontier = append(nextFrontier, v)

				col, lists := res.Adjacency(rel.Label, dir)
				switch {
				case rel.Variable:
					if lists == nil {
						return nil, dberr.New(dberr.KindPlanError, "physical mapper: variable-length rel %s needs list adjacency, label %s only has a column", rel.Name, rel.Label)
					}
					op = exec.NewRecursiveJoin(ctx.NextOpID(), op, lists, res.PathOverflow(), rel.Lower, rel.Upper, rel.TrackPath)
					// RecursiveJoin always emits (dst, length, mult, path).
					ctx.BindSlot(graph.Nodes[v].Name, expr.DataPos{ChunkPos: 0, VectorPos: nextCol})
					if rel.TrackPath {
						ctx.BindSlot(rel.Name, expr.DataPos{ChunkPos: 0, VectorPos: nextCol + 3})
					} else {
						ctx.BindSlot(rel.Name, expr.DataPos{ChunkPos: 0, VectorPos: nextCol + 1})
					}
					nextCol += 4
				case col != nil:
					op = exec.NewExtendColumn(ctx.NextOpID(), op, col)
					ctx.BindSlot(graph.Nodes[v].Name, expr.DataPos{ChunkPos: 0, VectorPos: nextCol})
					ctx.BindSlot(rel.Name, expr.DataPos{ChunkPos: 0, VectorPos: nextCol + 1})
					nextCol += 2
				case lists != nil:
					op = exec.NewExtendLists(ctx.NextOpID(), op, lists)
					ctx.BindSlot(graph.Nodes[v].Name, expr.DataPos{ChunkPos: 0, VectorPos: nextCol})
					ctx.BindSlot(rel.Name, expr.DataPos{ChunkPos: 0, VectorPos: nextCol + 1})
					nextCol += 2
				default:
					return nil, dberr.New(dberr.KindPlanError, "physical mapper: no adjacency for rel label %s", rel.Label)
				}
			}
		}
		frontier = nextFrontier
	}

	if len(visited) != len(nodeIdxs) {
		return nil, dberr.New(dberr.KindPlanError, "physical mapper: candidate graph is not connected from its canonical root")
	}
	return op, nil
}
