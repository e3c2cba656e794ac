package adjacency

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/buffer"
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

func TestAdjColumnGetSet(t *testing.T) {
	mgr := testManager(t)
	dstPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "dst.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	edgePf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "edge.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	col := OpenAdjColumn(mgr, dstPf, edgePf)

	_, _, ok, err := col.Get(5)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, col.Set(5, 100, 7))
	dst, edge, ok, err := col.Get(5)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 100, dst)
	require.EqualValues(t, 7, edge)
}

func TestAdjListsAppendAndScanWithinOneChunk(t *testing.T) {
	mgr := testManager(t)
	headerPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "head.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	chunkPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "chunk.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	lists := OpenAdjLists(mgr, headerPf, chunkPf)

	require.NoError(t, lists.Append(1, 10, 100))
	require.NoError(t, lists.Append(1, 20, 200))
	require.NoError(t, lists.Append(1, 30, 300))

	count, err := lists.Count(1)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	cur, err := lists.OpenList(1)
	require.NoError(t, err)
	dst := make([]uint64, 10)
	edge := make([]uint64, 10)
	n, err := lists.Scan(cur, dst, edge)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	got := map[uint64]uint64{}
	for i := 0; i < n; i++ {
		got[dst[i]] = edge[i]
	}
	require.Equal(t, map[uint64]uint64{10: 100, 20: 200, 30: 300}, got)

	n, err = lists.Scan(cur, dst, edge)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestAdjListsSpansMultipleChunks(t *testing.T) {
	mgr := testManager(t)
	headerPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "head.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	chunkPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "chunk.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	lists := OpenAdjLists(mgr, headerPf, chunkPf)
	total := lists.chunkCapacity*2 + 3

	want := map[uint64]uint64{}
	for i := 0; i < total; i++ {
		dst := uint64(1000 + i)
		edge := uint64(i)
		require.NoError(t, lists.Append(42, dst, edge))
		want[dst] = edge
	}

	count, err := lists.Count(42)
	require.NoError(t, err)
	require.EqualValues(t, total, count)

	cur, err := lists.OpenList(42)
	require.NoError(t, err)
	got := map[uint64]uint64{}
	buf := make([]uint64, 16)
	ebuf := make([]uint64, 16)
	for {
		n, err := lists.Scan(cur, buf, ebuf)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			got[buf[i]] = ebuf[i]
		}
	}
	require.Equal(t, want, got)
}

func TestAdjListsEmptySourceScansNothing(t *testing.T) {
	mgr := testManager(t)
	headerPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "head.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	chunkPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "chunk.adj"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	lists := OpenAdjLists(mgr, headerPf, chunkPf)
	cur, err := lists.OpenList(999)
	require.NoError(t, err)
	n, err := lists.Scan(cur, make([]uint64, 4), make([]uint64, 4))
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
