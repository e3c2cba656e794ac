package physical

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/exec"
	"github.com/cuemby/graphdb/internal/plan/enumerate"
	"github.com/cuemby/graphdb/internal/plan/querygraph"
	"github.com/cuemby/graphdb/internal/storage/adjacency"
	"github.com/cuemby/graphdb/internal/storage/overflow"
	"github.com/cuemby/graphdb/pkg/config"
)

// fakeResources is a minimal physical.Resources fixture backed by one
// real adjacency.AdjLists and one real overflow.File, the same way a
// graph.Store would supply them, without pulling in the full storage
// package.
type fakeResources struct {
	maxOffset uint64
	lists     *adjacency.AdjLists
	pathOvf   *overflow.File
}

func (r *fakeResources) NodeMaxOffset(label string) uint64 { return r.maxOffset }

func (r *fakeResources) Adjacency(relLabel string, dir catalog.RelDirection) (*adjacency.AdjColumn, *adjacency.AdjLists) {
	return nil, r.lists
}

func (r *fakeResources) PathOverflow() *overflow.File { return r.pathOvf }

func newFakeResources(t *testing.T) *fakeResources {
	t.Helper()
	mgr := buffer.NewManager(config.SystemConfig{
		DefaultPageBufferPoolSize: 1 << 20,
		LargePageBufferPoolSize:   1 << 20,
		MaxNumThreads:             2,
	})
	t.Cleanup(func() { mgr.Close() })

	headerPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "head.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	chunkPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "chunk.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	lists := adjacency.OpenAdjLists(mgr, headerPf, chunkPf)

	ovfPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "paths.ovf"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	return &fakeResources{maxOffset: 10, lists: lists, pathOvf: overflow.New(mgr, ovfPf)}
}

// variableLengthCandidate builds the two-node, one-variable-rel query
// graph `(p)-[k*1..3]->(q)` and its full-coverage candidate, bypassing
// the cost-based enumerator since Build only consults the candidate's
// typed subgraph, not its cost.
func variableLengthCandidate() (*querygraph.Graph, *enumerate.Candidate) {
	g := &querygraph.Graph{}
	p := g.AddNode(querygraph.QueryNode{Name: "p", Label: "person"})
	q := g.AddNode(querygraph.QueryNode{Name: "q", Label: "person"})
	g.AddRel(querygraph.QueryRel{
		Name: "k", Src: p, Dst: q, Label: "knows", Direction: catalog.Forward,
		Variable: true, Lower: 1, Upper: 3, TrackPath: true,
	})

	sg := querygraph.SingleNode(p)
	sg = sg.ExtendWithRel(0, q)
	return g, &enumerate.Candidate{Graph: sg, Operators: []string{"ScanNodeID(person)", "Extend(k)"}}
}

func TestBuildProducesRecursiveJoinForVariableLengthRel(t *testing.T) {
	g, candidate := variableLengthCandidate()
	res := newFakeResources(t)
	ctx := NewMapperContext()

	op, err := Build(ctx, g, candidate, res)
	require.NoError(t, err)

	rj, ok := op.(*exec.RecursiveJoin)
	require.True(t, ok, "expected root operator to be *exec.RecursiveJoin, got %T", op)
	require.Equal(t, 1, rj.Lower)
	require.Equal(t, 3, rj.Upper)
	require.True(t, rj.TrackPath)
	require.Same(t, res.pathOvf, rj.PathOvf)

	qPos, ok := ctx.Slot("q")
	require.True(t, ok)
	require.Equal(t, 1, qPos.VectorPos) // dst lands right after the root's own slot 0

	kPos, ok := ctx.Slot("k")
	require.True(t, ok)
	require.Equal(t, 4, kPos.VectorPos) // path column, since TrackPath is set
}

func TestBuildRejectsVariableLengthRelWithoutListAdjacency(t *testing.T) {
	g, candidate := variableLengthCandidate()
	res := newFakeResources(t)
	res.lists = nil // simulate a rel label with only column adjacency
	ctx := NewMapperContext()

	_, err := Build(ctx, g, candidate, res)
	require.Error(t, err)
}
