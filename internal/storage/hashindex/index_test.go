package hashindex

import (
	"fmt"
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

func TestInt64KeyInsertAndLookup(t *testing.T) {
	mgr := testManager(t)
	idx, err := Open(mgr, t.TempDir(), catalog.INT64)
	require.NoError(t, err)

	require.NoError(t, idx.Insert(int64(42), 1001))
	require.NoError(t, idx.Insert(int64(43), 1002))

	off, found, err := idx.Lookup(int64(42))
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 1001, off)

	_, found, err = idx.Lookup(int64(999))
	require.NoError(t, err)
	require.False(t, found)
}

func TestStringKeyInsertAndLookupThroughOverflow(t *testing.T) {
	mgr := testManager(t)
	idx, err := Open(mgr, t.TempDir(), catalog.STRING)
	require.NoError(t, err)

	require.NoError(t, idx.Insert("alice@example.com", 5))
	require.NoError(t, idx.Insert("a much longer primary key value that overflows inline storage", 6))

	off, found, err := idx.Lookup("alice@example.com")
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 5, off)

	off, found, err = idx.Lookup("a much longer primary key value that overflows inline storage")
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 6, off)
}

func TestManyKeysSurviveCollisionChains(t *testing.T) {
	mgr := testManager(t)
	idx, err := Open(mgr, t.TempDir(), catalog.INT64)
	require.NoError(t, err)

	const n = 2000
	for i := 0; i < n; i++ {
		require.NoError(t, idx.Insert(int64(i), uint64(10000+i)))
	}
	for i := 0; i < n; i++ {
		off, found, err := idx.Lookup(int64(i))
		require.NoError(t, err)
		require.Truef(t, found, "key %d", i)
		require.EqualValues(t, 10000+i, off)
	}
}

func TestReplayRebuildsDirectoryAfterReopen(t *testing.T) {
	mgr := testManager(t)
	dir := t.TempDir()
	idx, err := Open(mgr, dir, catalog.STRING)
	require.NoError(t, err)

	keys := []string{"p1", "p2", "p3", "a rather long key that spills to overflow storage"}
	for i, k := range keys {
		require.NoError(t, idx.Insert(k, uint64(i)))
	}
	require.NoError(t, mgr.FlushAll())

	reopened, err := Open(mgr, dir, catalog.STRING)
	require.NoError(t, err)
	for i, k := range keys {
		off, found, err := reopened.Lookup(k)
		require.NoError(t, err, fmt.Sprintf("key %q", k))
		require.True(t, found)
		require.EqualValues(t, i, off)
	}
}
