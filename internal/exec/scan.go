package exec

import (
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/column"
	"github.com/cuemby/graphdb/internal/vector"
)

// NodeSemiMask restricts ScanNodeID's emission to a known subset of
// node offsets (e.g. one already bound by an outer query's WHERE
// clause) — spec §4.8.
type NodeSemiMask struct {
	bitmap *roaring.Bitmap
}

func NewNodeSemiMask(offsets *roaring.Bitmap) *NodeSemiMask {
	return &NodeSemiMask{bitmap: offsets}
}

// ScanNodeID emits node offsets for one label in morsel-sized
// batches. The cursor is a shared atomic counter so concurrent
// workers can each claim a disjoint morsel of the full offset range.
type ScanNodeID struct {
	baseOperator

	Label     string
	MaxOffset uint64
	Mask      *NodeSemiMask

	cursor *atomic.Uint64
}

func NewScanNodeID(id int, label string, maxOffset uint64, mask *NodeSemiMask) *ScanNodeID {
	return &ScanNodeID{baseOperator: baseOperator{id}, Label: label, MaxOffset: maxOffset, Mask: mask, cursor: &atomic.Uint64{}}
}

func (s *ScanNodeID) InitLocalState(ec *ExecContext) error { return nil }

func (s *ScanNodeID) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	nodeType := catalog.Primitive(catalog.NODE)
	out := vector.New(nodeType, ec.Capacity)
	n := 0
	for n < ec.Capacity {
		off := s.cursor.Add(1) - 1
		if off >= s.MaxOffset {
			break
		}
		if s.Mask != nil && !s.Mask.bitmap.Contains(uint32(off)) {
			continue
		}
		out.SetNodeOffset(n, off)
		n++
	}
	if n == 0 {
		return nil, false, nil
	}
	chunk := vector.NewDataChunk([]*vector.Vector{out}, vector.NewIdentitySelection(n))
	return chunk, true, nil
}

func (s *ScanNodeID) Clone() Operator {
	return &ScanNodeID{baseOperator: s.baseOperator, Label: s.Label, MaxOffset: s.MaxOffset, Mask: s.Mask, cursor: s.cursor}
}

func (s *ScanNodeID) IsSource() bool { return true }

// ScanNodeProperty reads one or more columns at the offsets carried by
// its input chunk's NodeVectorPos'th vector (ChunkPos:0 in
// MapperContext terms, whichever node variable the compiler bound
// that position to), resolving variable-width values from overflow.
// Result columns are appended after every vector the child already
// produced, so extending a chain of Extend/ScanNodeProperty operators
// never disturbs a slot position an earlier stage already bound.
type ScanNodeProperty struct {
	baseOperator

	Child        Operator
	NodeVectorPos int
	Columns      []*column.Column
	ResultType   []catalog.LogicalType
}

func NewScanNodeProperty(id int, child Operator, nodeVectorPos int, columns []*column.Column, types []catalog.LogicalType) *ScanNodeProperty {
	return &ScanNodeProperty{baseOperator: baseOperator{id}, Child: child, NodeVectorPos: nodeVectorPos, Columns: columns, ResultType: types}
}

func (s *ScanNodeProperty) InitLocalState(ec *ExecContext) error { return s.Child.InitLocalState(ec) }

func (s *ScanNodeProperty) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	chunk, ok, err := s.Child.GetNextTuple(ec)
	if err != nil || !ok {
		return nil, ok, err
	}
	nodeIDs := chunk.Vectors[s.NodeVectorPos]
	sel := chunk.Sel

	outVectors := make([]*vector.Vector, len(s.Columns))
	for ci, col := range s.Columns {
		outVectors[ci] = vector.New(s.ResultType[ci], ec.Capacity)
		outVectors[ci].Ovf = col.Ovf()
		for i := 0; i < sel.Len(); i++ {
			pos := sel.At(i)
			off := nodeIDs.GetNodeOffset(pos)
			raw, isNull, err := col.Read(off)
			if err != nil {
				return nil, false, err
			}
			outVectors[ci].SetRawSlot(pos, raw, isNull)
		}
	}

	full := append(append([]*vector.Vector{}, chunk.Vectors...), outVectors...)
	return vector.NewDataChunk(full, sel), true, nil
}

func (s *ScanNodeProperty) Clone() Operator {
	return &ScanNodeProperty{baseOperator: s.baseOperator, Child: s.Child.Clone(), NodeVectorPos: s.NodeVectorPos, Columns: s.Columns, ResultType: s.ResultType}
}

func (s *ScanNodeProperty) IsSource() bool { return false }
