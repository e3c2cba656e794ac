package enumerate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/plan/querygraph"
)

func testStats() Stats {
	return Stats{
		NodeLabelCardinality: func(label string) float64 { return 1000 },
		RelFanOut:            func(label string, c catalog.Cardinality) float64 { return 5 },
	}
}

// (p:Person)-[:KNOWS]->(f:Person)-[:LIKES]->(m:Movie)
func chainGraph() *querygraph.Graph {
	g := &querygraph.Graph{}
	p := g.AddNode(querygraph.QueryNode{Name: "p", Label: "Person"})
	f := g.AddNode(querygraph.QueryNode{Name: "f", Label: "Person"})
	m := g.AddNode(querygraph.QueryNode{Name: "m", Label: "Movie"})
	g.AddRel(querygraph.QueryRel{Name: "k", Src: p, Dst: f, Label: "KNOWS"})
	g.AddRel(querygraph.QueryRel{Name: "l", Src: f, Dst: m, Label: "LIKES"})
	return g
}

func TestEnumerateCoversFullGraph(t *testing.T) {
	g := chainGraph()
	e := New(g, testStats())

	best, err := e.Enumerate()
	require.NoError(t, err)
	require.Equal(t, 3, best.Graph.Size())
	require.EqualValues(t, 2, best.Graph.Rels.GetCardinality())
}

func TestEnumerateIsDeterministic(t *testing.T) {
	g := chainGraph()
	best1, err := New(g, testStats()).Enumerate()
	require.NoError(t, err)
	best2, err := New(g, testStats()).Enumerate()
	require.NoError(t, err)
	require.Equal(t, best1.Cost, best2.Cost)
	require.Equal(t, best1.Operators, best2.Operators)
}

func TestDisconnectedGraphFails(t *testing.T) {
	g := &querygraph.Graph{}
	g.AddNode(querygraph.QueryNode{Name: "a", Label: "Person"})
	g.AddNode(querygraph.QueryNode{Name: "b", Label: "Person"})
	// no rel between a and b

	_, err := New(g, testStats()).Enumerate()
	require.Error(t, err)
}
