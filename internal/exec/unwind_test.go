package exec

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/expr"
	"github.com/cuemby/graphdb/internal/storage/overflow"
	"github.com/cuemby/graphdb/internal/vector"
	"github.com/cuemby/graphdb/pkg/config"
)

// listRowsSource yields a single chunk of rows whose one INT64 column
// is the row index and whose one LIST column carries the tags given
// for that row (nil meaning an absent/null list).
type listRowsSource struct {
	baseOperator
	tags [][]uint64
	ovf  *overflow.File
	done bool
}

func (s *listRowsSource) InitLocalState(ec *ExecContext) error { return nil }

func (s *listRowsSource) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	if s.done {
		return nil, false, nil
	}
	s.done = true

	idx := vector.New(catalog.Primitive(catalog.INT64), ec.Capacity)
	listVec := vector.New(catalog.ListOf(catalog.Primitive(catalog.INT64)), ec.Capacity)
	listVec.Ovf = s.ovf
	for i, tags := range s.tags {
		idx.SetInt64(i, int64(i))
		if tags == nil {
			listVec.SetNull(i, true)
			continue
		}
		if err := listVec.SetUint64List(i, tags); err != nil {
			return nil, false, err
		}
	}
	return vector.NewDataChunk([]*vector.Vector{idx, listVec}, vector.NewIdentitySelection(len(s.tags))), true, nil
}

func (s *listRowsSource) Clone() Operator {
	return &listRowsSource{baseOperator: s.baseOperator, tags: s.tags, ovf: s.ovf}
}
func (s *listRowsSource) IsSource() bool { return true }

func testUnwindOvf(t *testing.T) *overflow.File {
	t.Helper()
	mgr := buffer.NewManager(config.SystemConfig{
		DefaultPageBufferPoolSize: 1 << 20,
		LargePageBufferPoolSize:   1 << 20,
		MaxNumThreads:             2,
	})
	t.Cleanup(func() { mgr.Close() })
	pf, err := mgr.OpenFile(filepath.Join(t.TempDir(), "tags.ovf"), buffer.DefaultPageClass, false)
	require.NoError(t, err)
	return overflow.New(mgr, pf)
}

func drainUnwind(t *testing.T, u *Unwind) []struct {
	idx int64
	tag int64
} {
	t.Helper()
	ec := &ExecContext{Capacity: 16}
	require.NoError(t, u.InitLocalState(ec))

	var rows []struct {
		idx int64
		tag int64
	}
	for {
		chunk, ok, err := u.GetNextTuple(ec)
		require.NoError(t, err)
		if !ok {
			break
		}
		for i := 0; i < chunk.Sel.Len(); i++ {
			pos := chunk.Sel.At(i)
			rows = append(rows, struct {
				idx int64
				tag int64
			}{
				idx: chunk.Vectors[0].GetInt64(pos),
				tag: chunk.Vectors[2].GetInt64(pos),
			})
		}
	}
	return rows
}

func TestUnwindExpandsOneRowPerElement(t *testing.T) {
	ovf := testUnwindOvf(t)
	src := &listRowsSource{tags: [][]uint64{{10, 20, 30}}, ovf: ovf}

	listPos := expr.DataPos{ChunkPos: 0, VectorPos: 1}
	listType := catalog.ListOf(catalog.Primitive(catalog.INT64))
	listEval := expr.NewSlotEvaluator(listPos, listType)

	u := NewUnwind(1, src, listEval, catalog.Primitive(catalog.INT64))
	rows := drainUnwind(t, u)

	require.Len(t, rows, 3)
	for _, r := range rows {
		require.EqualValues(t, 0, r.idx)
	}
	require.EqualValues(t, 10, rows[0].tag)
	require.EqualValues(t, 20, rows[1].tag)
	require.EqualValues(t, 30, rows[2].tag)
}

func TestUnwindSkipsNullAndEmptyLists(t *testing.T) {
	ovf := testUnwindOvf(t)
	src := &listRowsSource{tags: [][]uint64{{1, 2}, nil, {}}, ovf: ovf}

	listPos := expr.DataPos{ChunkPos: 0, VectorPos: 1}
	listType := catalog.ListOf(catalog.Primitive(catalog.INT64))
	listEval := expr.NewSlotEvaluator(listPos, listType)

	u := NewUnwind(1, src, listEval, catalog.Primitive(catalog.INT64))
	rows := drainUnwind(t, u)

	require.Len(t, rows, 2) // only row 0's two elements; rows 1 (null) and 2 (empty) contribute nothing
	require.EqualValues(t, 0, rows[0].idx)
	require.EqualValues(t, 1, rows[0].tag)
	require.EqualValues(t, 2, rows[1].tag)
}

func TestUnwindOverMultipleRows(t *testing.T) {
	ovf := testUnwindOvf(t)
	src := &listRowsSource{tags: [][]uint64{{5}, {6, 7}}, ovf: ovf}

	listPos := expr.DataPos{ChunkPos: 0, VectorPos: 1}
	listType := catalog.ListOf(catalog.Primitive(catalog.INT64))
	listEval := expr.NewSlotEvaluator(listPos, listType)

	u := NewUnwind(1, src, listEval, catalog.Primitive(catalog.INT64))
	rows := drainUnwind(t, u)

	require.Len(t, rows, 3)
	require.EqualValues(t, 0, rows[0].idx)
	require.EqualValues(t, 5, rows[0].tag)
	require.EqualValues(t, 1, rows[1].idx)
	require.EqualValues(t, 6, rows[1].tag)
	require.EqualValues(t, 1, rows[2].idx)
	require.EqualValues(t, 7, rows[2].tag)
}
