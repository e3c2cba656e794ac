package exec

import (
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/adjacency"
	"github.com/cuemby/graphdb/internal/vector"
)

// Extend opens the adjacency list/column for the current flat source
// node and produces unflat (dst, edge) vectors — or flat output when
// the adjacency is an AdjColumn, since a single-dst mapping never
// needs an unflat selection (spec §4.8).
type Extend struct {
	baseOperator

	Child Operator
	Col   *adjacency.AdjColumn // one of Col or Lists is set
	Lists *adjacency.AdjLists

	cur        *adjacency.Cursor
	carried    []*vector.Vector
	carriedPos int
}

func NewExtendColumn(id int, child Operator, col *adjacency.AdjColumn) *Extend {
	return &Extend{baseOperator: baseOperator{id}, Child: child, Col: col}
}

func NewExtendLists(id int, child Operator, lists *adjacency.AdjLists) *Extend {
	return &Extend{baseOperator: baseOperator{id}, Child: child, Lists: lists}
}

func (e *Extend) InitLocalState(ec *ExecContext) error { return e.Child.InitLocalState(ec) }

func (e *Extend) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	if e.Col != nil {
		return e.extendColumn(ec)
	}
	return e.extendLists(ec)
}

func (e *Extend) extendColumn(ec *ExecContext) (*vector.DataChunk, bool, error) {
	chunk, ok, err := e.Child.GetNextTuple(ec)
	if err != nil || !ok {
		return nil, ok, err
	}
	// The join-key column the adjacency lookup keys off of — by
	// convention the query variable this Extend steps off of, which the
	// physical mapper always places in column 0.
	srcIDs := chunk.Vectors[0]
	sel := chunk.Sel

	dstOut := vector.New(catalog.Primitive(catalog.NODE), ec.Capacity)
	edgeOut := vector.New(catalog.Primitive(catalog.NODE), ec.Capacity)
	for i := 0; i < sel.Len(); i++ {
		pos := sel.At(i)
		src := srcIDs.GetNodeOffset(pos)
		dst, edge, ok, err := e.Col.Get(src)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			dstOut.SetNull(pos, true)
			edgeOut.SetNull(pos, true)
			continue
		}
		dstOut.SetNodeOffset(pos, dst)
		edgeOut.SetNodeOffset(pos, edge)
	}
	out := vector.NewDataChunk(append(append([]*vector.Vector{}, chunk.Vectors...), dstOut, edgeOut), sel)
	return out, true, nil
}

func (e *Extend) extendLists(ec *ExecContext) (*vector.DataChunk, bool, error) {
	for {
		if e.cur == nil {
			chunk, ok, err := e.Child.GetNextTuple(ec)
			if err != nil || !ok {
				return nil, ok, err
			}
			// A lists-backed Extend only ever receives a flat, single-row
			// child chunk: one source node fully expanded before the next.
			// Its columns (including any variable bound upstream of this
			// Extend) must be carried forward onto every row of the
			// expansion, so they are held flat and broadcast below rather
			// than dropped.
			pos := chunk.Sel.At(0)
			src := chunk.Vectors[0].GetNodeOffset(pos)
			cur, err := e.Lists.OpenList(src)
			if err != nil {
				return nil, false, err
			}
			e.cur = cur
			e.carried = chunk.Vectors
			e.carriedPos = pos
		}

		dstBuf := make([]uint64, ec.Capacity)
		edgeBuf := make([]uint64, ec.Capacity)
		n, err := e.Lists.Scan(e.cur, dstBuf, edgeBuf)
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			e.cur = nil
			e.carried = nil
			continue
		}

		dstOut := vector.New(catalog.Primitive(catalog.NODE), ec.Capacity)
		edgeOut := vector.New(catalog.Primitive(catalog.NODE), ec.Capacity)
		for i := 0; i < n; i++ {
			dstOut.SetNodeOffset(i, dstBuf[i])
			edgeOut.SetNodeOffset(i, edgeBuf[i])
		}
		broadcast := broadcastCarried(e.carried, e.carriedPos, n, ec.Capacity)
		out := vector.NewDataChunk(append(broadcast, dstOut, edgeOut), vector.NewIdentitySelection(n))
		return out, true, nil
	}
}

// broadcastCarried replicates each column of a single-row flat chunk
// across n output rows, since a list-based Extend fans one source row
// out into many.
func broadcastCarried(carried []*vector.Vector, pos, n, capacity int) []*vector.Vector {
	out := make([]*vector.Vector, len(carried))
	for ci, src := range carried {
		v := vector.New(src.Type, capacity)
		for i := 0; i < n; i++ {
			if src.IsNull(pos) {
				v.SetNull(i, true)
				continue
			}
			v.SetRawSlot(i, src.RawSlot(pos), false)
		}
		out[ci] = v
	}
	return out
}

func (e *Extend) Clone() Operator {
	return &Extend{baseOperator: e.baseOperator, Child: e.Child.Clone(), Col: e.Col, Lists: e.Lists}
}

func (e *Extend) IsSource() bool { return false }
