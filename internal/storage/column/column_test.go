package column

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/overflow"
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

func int64Bytes(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

func TestFixedWidthReadWriteRoundTrip(t *testing.T) {
	mgr := testManager(t)
	pf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "age.col"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	c := Open(mgr, pf, catalog.Primitive(catalog.INT64), nil)

	require.NoError(t, c.Write(0, int64Bytes(42), false))
	require.NoError(t, c.Write(1, nil, true))
	require.NoError(t, c.Write(2, int64Bytes(-7), false))

	raw, isNull, err := c.Read(0)
	require.NoError(t, err)
	require.False(t, isNull)
	require.EqualValues(t, 42, int64(binary.LittleEndian.Uint64(raw)))

	_, isNull, err = c.Read(1)
	require.NoError(t, err)
	require.True(t, isNull)
}

func TestUnwrittenOffsetReadsAsNull(t *testing.T) {
	mgr := testManager(t)
	pf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "age.col"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	c := Open(mgr, pf, catalog.Primitive(catalog.INT64), nil)
	_, isNull, err := c.Read(100)
	require.NoError(t, err)
	require.True(t, isNull)
}

func TestVariableWidthColumnRoundTripsThroughOverflow(t *testing.T) {
	mgr := testManager(t)
	pf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "name.col"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	ovfPf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "name.ovf"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	c := Open(mgr, pf, catalog.Primitive(catalog.STRING), overflow.New(mgr, ovfPf))

	short, err := c.EncodeVarWidth([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, c.Write(0, short, false))

	long, err := c.EncodeVarWidth([]byte("a longer string value that overflows inline capacity"))
	require.NoError(t, err)
	require.NoError(t, c.Write(1, long, false))

	raw, isNull, err := c.Read(0)
	require.NoError(t, err)
	require.False(t, isNull)
	got, err := c.ResolveVarWidth(raw)
	require.NoError(t, err)
	require.Equal(t, "hi", string(got))

	raw, isNull, err = c.Read(1)
	require.NoError(t, err)
	require.False(t, isNull)
	got, err = c.ResolveVarWidth(raw)
	require.NoError(t, err)
	require.Equal(t, "a longer string value that overflows inline capacity", string(got))
}

func TestReadRangePreservesOrder(t *testing.T) {
	mgr := testManager(t)
	pf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "age.col"), buffer.DefaultPageClass, false)
	require.NoError(t, err)

	c := Open(mgr, pf, catalog.Primitive(catalog.INT64), nil)
	for i := int64(0); i < 5; i++ {
		require.NoError(t, c.Write(uint64(i), int64Bytes(i*10), false))
	}

	raw, nulls, err := c.ReadRange([]uint64{3, 0, 4})
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, false}, nulls)
	require.EqualValues(t, 30, binary.LittleEndian.Uint64(raw[0]))
	require.EqualValues(t, 0, binary.LittleEndian.Uint64(raw[1]))
	require.EqualValues(t, 40, binary.LittleEndian.Uint64(raw[2]))
}
