package exec

import (
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/expr"
	"github.com/cuemby/graphdb/internal/vector"
)

// Unwind expands a list-valued expression into one output row per
// element, appending the element as a new trailing column alongside
// the input row's existing columns (spec §6 UNWIND: "expand a list
// into rows"). A null or empty list contributes no output rows for
// that input row, the same "absent list produces nothing" rule
// Flatten's row-at-a-time consumers already rely on elsewhere in this
// package.
type Unwind struct {
	baseOperator

	Child    Operator
	ListExpr expr.Evaluator
	ElemType catalog.LogicalType

	chunk    *vector.DataChunk
	listVec  *vector.Vector
	chunkPos int
	elems    []uint64
	elemPos  int
	rowPos   int
}

func NewUnwind(id int, child Operator, listExpr expr.Evaluator, elemType catalog.LogicalType) *Unwind {
	return &Unwind{baseOperator: baseOperator{id}, Child: child, ListExpr: listExpr, ElemType: elemType}
}

func (u *Unwind) InitLocalState(ec *ExecContext) error { return u.Child.InitLocalState(ec) }

func (u *Unwind) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	for {
		if u.elemPos < len(u.elems) {
			return u.emit(ec)
		}
		if u.chunk == nil || u.chunkPos >= u.chunk.Sel.Len() {
			chunk, ok, err := u.Child.GetNextTuple(ec)
			if err != nil || !ok {
				return nil, ok, err
			}
			evalCtx := &expr.EvalContext{Chunks: []*vector.DataChunk{chunk}}
			if err := u.ListExpr.Evaluate(evalCtx); err != nil {
				return nil, false, err
			}
			u.chunk = chunk
			u.listVec = u.ListExpr.Result()
			u.chunkPos = 0
			continue
		}

		pos := u.chunk.Sel.At(u.chunkPos)
		u.chunkPos++
		u.rowPos = pos
		if u.listVec.IsNull(pos) {
			continue
		}
		elems, err := u.listVec.GetUint64List(pos)
		if err != nil {
			return nil, false, err
		}
		u.elems = elems
		u.elemPos = 0
	}
}

// emit produces one flat row carrying the input row's columns plus
// the next unconsumed list element, written at the same physical
// position as the input row so the existing vectors' selection stays
// valid (the ScanNodeProperty append convention).
func (u *Unwind) emit(ec *ExecContext) (*vector.DataChunk, bool, error) {
	elemVec := vector.New(u.ElemType, ec.Capacity)
	val := u.elems[u.elemPos]
	u.elemPos++
	switch u.ElemType.ID {
	case catalog.NODE, catalog.REL:
		elemVec.SetNodeOffset(u.rowPos, val)
	default:
		elemVec.SetInt64(u.rowPos, int64(val))
	}
	full := append(append([]*vector.Vector{}, u.chunk.Vectors...), elemVec)
	return vector.NewDataChunk(full, vector.NewFlatSelection(u.rowPos)), true, nil
}

func (u *Unwind) Clone() Operator {
	return &Unwind{baseOperator: u.baseOperator, Child: u.Child.Clone(), ListExpr: u.ListExpr, ElemType: u.ElemType}
}

func (u *Unwind) IsSource() bool { return false }
