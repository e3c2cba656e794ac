package exec

import (
	"github.com/cespare/xxhash/v2"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/vector"
)

// AggFunc identifies one of the aggregate functions spec §4.8 names.
type AggFunc int

const (
	AggCount AggFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
	AggCollect
)

// AggSpec describes one output aggregate column: which function, over
// which input vector position (NumKeys+i, since group keys are
// always the leading columns), and whether duplicate values within a
// group are suppressed before folding (DISTINCT).
type AggSpec struct {
	Func     AggFunc
	InputPos int
	Distinct bool
}

type groupState struct {
	keys     []uint64
	count    int64
	sum      float64
	min, max float64
	haveMM   bool
	collect  []uint64
	seen     map[uint64]bool // only populated when Distinct
}

// Aggregate is a hash-group operator: it drains its child fully,
// folding rows into one groupState per distinct key tuple keyed by an
// xxhash digest of the key columns, then emits one row per group
// (spec §4.8).
type Aggregate struct {
	baseOperator

	Child     Operator
	NumKeys   int
	Specs     []AggSpec

	groups map[uint64]*groupState
	order  []uint64
	drained bool
	outPos  int
}

func NewAggregate(id int, child Operator, numKeys int, specs []AggSpec) *Aggregate {
	return &Aggregate{baseOperator: baseOperator{id}, Child: child, NumKeys: numKeys, Specs: specs}
}

func (a *Aggregate) InitLocalState(ec *ExecContext) error { return a.Child.InitLocalState(ec) }

func (a *Aggregate) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	if !a.drained {
		if err := a.drain(ec); err != nil {
			return nil, false, err
		}
		a.drained = true
	}
	if a.outPos >= len(a.order) {
		return nil, false, nil
	}
	n := len(a.order) - a.outPos
	if n > ec.Capacity {
		n = ec.Capacity
	}

	keyOut := make([]*vector.Vector, a.NumKeys)
	for k := range keyOut {
		keyOut[k] = vector.New(catalog.Primitive(catalog.NODE), ec.Capacity)
	}
	aggOut := make([]*vector.Vector, len(a.Specs))
	for s, spec := range a.Specs {
		aggOut[s] = vector.New(resultTypeOf(spec.Func), ec.Capacity)
	}

	for i := 0; i < n; i++ {
		g := a.groups[a.order[a.outPos+i]]
		for k := 0; k < a.NumKeys; k++ {
			keyOut[k].SetNodeOffset(i, g.keys[k])
		}
		for s, spec := range a.Specs {
			writeAggResult(aggOut[s], i, spec, g)
		}
	}
	a.outPos += n

	all := append(keyOut, aggOut...)
	return vector.NewDataChunk(all, vector.NewIdentitySelection(n)), true, nil
}

func resultTypeOf(f AggFunc) catalog.LogicalType {
	if f == AggCount {
		return catalog.Primitive(catalog.INT64)
	}
	return catalog.Primitive(catalog.DOUBLE)
}

func writeAggResult(v *vector.Vector, i int, spec AggSpec, g *groupState) {
	switch spec.Func {
	case AggCount:
		v.SetInt64(i, g.count)
	case AggSum:
		v.SetFloat64(i, g.sum)
	case AggAvg:
		if g.count == 0 {
			v.SetNull(i, true)
			return
		}
		v.SetFloat64(i, g.sum/float64(g.count))
	case AggMin:
		if !g.haveMM {
			v.SetNull(i, true)
			return
		}
		v.SetFloat64(i, g.min)
	case AggMax:
		if !g.haveMM {
			v.SetNull(i, true)
			return
		}
		v.SetFloat64(i, g.max)
	case AggCollect:
		// COLLECT's full list materialization lives above the operator
		// boundary (the session layer renders collected offsets into a
		// list value); here it only contributes the count of collected
		// items as the flattenable slot.
		v.SetInt64(i, int64(len(g.collect)))
	}
}

func (a *Aggregate) drain(ec *ExecContext) error {
	a.groups = make(map[uint64]*groupState)
	for {
		chunk, ok, err := a.Child.GetNextTuple(ec)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		sel := chunk.Sel
		for i := 0; i < sel.Len(); i++ {
			pos := sel.At(i)
			keys := make([]uint64, a.NumKeys)
			h := xxhash.New()
			for k := 0; k < a.NumKeys; k++ {
				keys[k] = chunk.Vectors[k].GetNodeOffset(pos)
				_, _ = h.Write(uint64Bytes(keys[k]))
			}
			digest := h.Sum64()
			g, ok := a.groups[digest]
			if !ok {
				g = &groupState{keys: keys}
				a.groups[digest] = g
				a.order = append(a.order, digest)
			}
			a.foldRow(g, chunk, pos)
		}
	}
}

func (a *Aggregate) foldRow(g *groupState, chunk *vector.DataChunk, pos int) {
	g.count++
	for _, spec := range a.Specs {
		vec := chunk.Vectors[spec.InputPos]
		if vec.IsNull(pos) {
			continue
		}
		var val float64
		switch vec.Type.ID {
		case catalog.INT64, catalog.NODE:
			val = float64(vec.GetInt64(pos))
		case catalog.DOUBLE:
			val = vec.GetFloat64(pos)
		}

		if spec.Distinct {
			if g.seen == nil {
				g.seen = make(map[uint64]bool)
			}
			dk := uint64(int64(val))
			if g.seen[dk] {
				continue
			}
			g.seen[dk] = true
		}

		switch spec.Func {
		case AggSum, AggAvg:
			g.sum += val
		case AggMin:
			if !g.haveMM || val < g.min {
				g.min = val
			}
			g.haveMM = true
		case AggMax:
			if !g.haveMM || val > g.max {
				g.max = val
			}
			g.haveMM = true
		case AggCollect:
			g.collect = append(g.collect, uint64(int64(val)))
		}
	}
}

func (a *Aggregate) Clone() Operator {
	return &Aggregate{baseOperator: a.baseOperator, Child: a.Child.Clone(), NumKeys: a.NumKeys, Specs: a.Specs}
}

func (a *Aggregate) IsSource() bool { return false }
