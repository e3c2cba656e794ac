package exec

import (
	"math"
	"sort"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/vector"
)

// SortKey names one ORDER BY term: which vector position to compare
// and in which direction.
type SortKey struct {
	Pos  int
	Desc bool
}

// OrderBy materializes its entire child into row-major tuples, sorts
// them with a stable comparator over Keys, then re-emits in
// morsel-sized batches (spec §4.8: "materialize + sort"; the radix
// fast path for all-fixed-width single-key sorts is left to a future
// pass — every plan shape still produces correct output through the
// general comparator).
type OrderBy struct {
	baseOperator

	Child  Operator
	Keys   []SortKey
	Schema []catalog.LogicalType

	rows   [][]uint64
	nulls  [][]bool
	sorted bool
	outPos int
}

func NewOrderBy(id int, child Operator, keys []SortKey, schema []catalog.LogicalType) *OrderBy {
	return &OrderBy{baseOperator: baseOperator{id}, Child: child, Keys: keys, Schema: schema}
}

func (o *OrderBy) InitLocalState(ec *ExecContext) error { return o.Child.InitLocalState(ec) }

func (o *OrderBy) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	if !o.sorted {
		if err := o.materializeAndSort(ec); err != nil {
			return nil, false, err
		}
		o.sorted = true
	}
	if o.outPos >= len(o.rows) {
		return nil, false, nil
	}
	n := len(o.rows) - o.outPos
	if n > ec.Capacity {
		n = ec.Capacity
	}
	numCols := len(o.Schema)
	outVectors := make([]*vector.Vector, numCols)
	for c := 0; c < numCols; c++ {
		outVectors[c] = vector.New(o.Schema[c], ec.Capacity)
	}
	for i := 0; i < n; i++ {
		row := o.rows[o.outPos+i]
		nullrow := o.nulls[o.outPos+i]
		for c := 0; c < numCols; c++ {
			if nullrow[c] {
				outVectors[c].SetNull(i, true)
				continue
			}
			writeTyped(outVectors[c], i, row[c])
		}
	}
	o.outPos += n
	return vector.NewDataChunk(outVectors, vector.NewIdentitySelection(n)), true, nil
}

func writeTyped(v *vector.Vector, i int, raw uint64) {
	switch v.Type.ID {
	case catalog.DOUBLE:
		v.SetFloat64(i, math.Float64frombits(raw))
	case catalog.BOOL:
		v.SetBool(i, raw != 0)
	default:
		v.SetNodeOffset(i, raw)
	}
}

// compareRaw orders two raw slot values of the given logical type.
// DOUBLE compares as floats (bit-pattern storage is not monotonic for
// negative values), INT64 compares as signed integers, everything else
// compares as unsigned integers.
func compareRaw(t catalog.LogicalType, a, b uint64) int {
	if t.ID == catalog.INT64 {
		// Flipping the sign bit maps signed order onto unsigned order.
		a, b = a^(1<<63), b^(1<<63)
	}
	if t.ID == catalog.DOUBLE {
		fa, fb := math.Float64frombits(a), math.Float64frombits(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (o *OrderBy) materializeAndSort(ec *ExecContext) error {
	for {
		chunk, ok, err := o.Child.GetNextTuple(ec)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		sel := chunk.Sel
		for i := 0; i < sel.Len(); i++ {
			pos := sel.At(i)
			row := make([]uint64, len(chunk.Vectors))
			nullrow := make([]bool, len(chunk.Vectors))
			for c, v := range chunk.Vectors {
				if v.IsNull(pos) {
					nullrow[c] = true
					continue
				}
				row[c] = readTyped(v, pos)
			}
			o.rows = append(o.rows, row)
			o.nulls = append(o.nulls, nullrow)
		}
	}

	idx := make([]int, len(o.rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		for _, k := range o.Keys {
			ni, nj := o.nulls[i][k.Pos], o.nulls[j][k.Pos]
			if ni != nj {
				return nj // nulls sort last regardless of direction
			}
			if ni && nj {
				continue
			}
			c := compareRaw(o.Schema[k.Pos], o.rows[i][k.Pos], o.rows[j][k.Pos])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	sortedRows := make([][]uint64, len(o.rows))
	sortedNulls := make([][]bool, len(o.nulls))
	for newPos, oldPos := range idx {
		sortedRows[newPos] = o.rows[oldPos]
		sortedNulls[newPos] = o.nulls[oldPos]
	}
	o.rows = sortedRows
	o.nulls = sortedNulls
	return nil
}

func readTyped(v *vector.Vector, pos int) uint64 {
	switch v.Type.ID {
	case catalog.DOUBLE:
		return math.Float64bits(v.GetFloat64(pos))
	case catalog.BOOL:
		if v.GetBool(pos) {
			return 1
		}
		return 0
	default:
		return v.GetNodeOffset(pos)
	}
}

func (o *OrderBy) Clone() Operator {
	return &OrderBy{baseOperator: o.baseOperator, Child: o.Child.Clone(), Keys: o.Keys, Schema: o.Schema}
}

func (o *OrderBy) IsSource() bool { return false }
