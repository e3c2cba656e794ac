package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/pkg/config"
)

func testManager(t *testing.T) *buffer.Manager {
	t.Helper()
	mgr := buffer.NewManager(config.SystemConfig{
		DefaultPageBufferPoolSize: 1 << 20,
		LargePageBufferPoolSize:   1 << 20,
		MaxNumThreads:             2,
	})
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })
	return cat
}

func TestEnsureNodeStoreOpensOnDemand(t *testing.T) {
	cat := testCatalog(t)
	mgr := testManager(t)

	props := []catalog.PropertyDef{
		{Name: "id", Type: catalog.Primitive(catalog.INT64), ColumnIndex: 0},
		{Name: "name", Type: catalog.Primitive(catalog.STRING), ColumnIndex: 1},
	}
	person, err := cat.CreateNodeLabel("person", props, 0)
	require.NoError(t, err)

	store, err := Open(mgr, cat, t.TempDir(), false)
	require.NoError(t, err)

	ns, ok := store.NodeStore("person")
	require.True(t, ok)
	require.Len(t, ns.Columns, 2)
	require.NotNil(t, ns.PK)

	// A label created after Open is still picked up lazily.
	pet, err := cat.CreateNodeLabel("pet", nil, -1)
	require.NoError(t, err)
	_, ok = store.NodeStore("pet")
	require.False(t, ok)
	ps, err := store.EnsureNodeStore(pet)
	require.NoError(t, err)
	require.Nil(t, ps.PK)
}

func TestRelStoreChoosesColumnOrListsByCardinality(t *testing.T) {
	cat := testCatalog(t)
	mgr := testManager(t)
	store, err := Open(mgr, cat, t.TempDir(), false)
	require.NoError(t, err)

	person, err := cat.CreateNodeLabel("person", nil, -1)
	require.NoError(t, err)

	oneToOne, err := cat.CreateRelLabel("spouseOf", nil, []uint32{person.ID}, []uint32{person.ID}, catalog.OneToOne)
	require.NoError(t, err)
	rs, err := store.EnsureRelStore(oneToOne)
	require.NoError(t, err)
	require.NotNil(t, rs.ForwardCol)
	require.Nil(t, rs.ForwardLists)
	require.NotNil(t, rs.BackwardCol)
	require.Nil(t, rs.BackwardLists)

	manyToMany, err := cat.CreateRelLabel("knows", nil, []uint32{person.ID}, []uint32{person.ID}, catalog.ManyToMany)
	require.NoError(t, err)
	rs2, err := store.EnsureRelStore(manyToMany)
	require.NoError(t, err)
	require.Nil(t, rs2.ForwardCol)
	require.NotNil(t, rs2.ForwardLists)
	require.Nil(t, rs2.BackwardCol)
	require.NotNil(t, rs2.BackwardLists)
}

func TestNodeMaxOffsetAndAdjacencySatisfyResources(t *testing.T) {
	cat := testCatalog(t)
	mgr := testManager(t)
	store, err := Open(mgr, cat, t.TempDir(), false)
	require.NoError(t, err)

	person, err := cat.CreateNodeLabel("person", nil, -1)
	require.NoError(t, err)
	require.Zero(t, store.NodeMaxOffset("person"))

	_, err = store.CreateNode(person, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1), store.NodeMaxOffset("person"))

	knows, err := cat.CreateRelLabel("knows", nil, []uint32{person.ID}, []uint32{person.ID}, catalog.ManyToMany)
	require.NoError(t, err)
	_, lists := store.Adjacency("knows", catalog.Forward)
	require.NotNil(t, lists)
	_ = knows
}
