package exec

import (
	"sync/atomic"

	"github.com/cuemby/graphdb/internal/vector"
)

// Limit truncates its child's output to at most N rows total, shared
// across concurrent morsel workers via an atomic budget counter. Once
// the budget is exhausted it reports end-of-stream without pulling
// further from Child, which lets the query processor cancel remaining
// source morsels (spec §4.8).
type Limit struct {
	baseOperator

	Child  Operator
	N      int64
	budget *atomic.Int64
}

func NewLimit(id int, child Operator, n int64) *Limit {
	b := &atomic.Int64{}
	b.Store(n)
	return &Limit{baseOperator: baseOperator{id}, Child: child, N: n, budget: b}
}

func (l *Limit) InitLocalState(ec *ExecContext) error { return l.Child.InitLocalState(ec) }

func (l *Limit) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	if l.budget.Load() <= 0 {
		return nil, false, nil
	}
	chunk, ok, err := l.Child.GetNextTuple(ec)
	if err != nil || !ok {
		return nil, ok, err
	}
	sel := chunk.Sel
	n := int64(sel.Len())
	remaining := l.budget.Add(-n) + n // value before this subtraction
	if remaining <= 0 {
		return nil, false, nil
	}
	if remaining >= n {
		return chunk, true, nil
	}
	keep := int(remaining)
	truncated := vector.NewIdentitySelection(0)
	truncated.Size = keep
	truncated.Positions = make([]uint32, keep)
	for i := 0; i < keep; i++ {
		truncated.Positions[i] = uint32(sel.At(i))
	}
	return vector.NewDataChunk(chunk.Vectors, truncated), true, nil
}

func (l *Limit) Clone() Operator {
	return &Limit{baseOperator: l.baseOperator, Child: l.Child.Clone(), N: l.N, budget: l.budget}
}

func (l *Limit) IsSource() bool { return false }

// Skip discards the first N rows of its child's output, shared across
// concurrent morsel workers via an atomic counter so the cut falls in
// exactly one place regardless of which worker pulls which morsel.
type Skip struct {
	baseOperator

	Child   Operator
	N       int64
	skipped *atomic.Int64
}

func NewSkip(id int, child Operator, n int64) *Skip {
	s := &atomic.Int64{}
	return &Skip{baseOperator: baseOperator{id}, Child: child, N: n, skipped: s}
}

func (s *Skip) InitLocalState(ec *ExecContext) error { return s.Child.InitLocalState(ec) }

func (s *Skip) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	for {
		chunk, ok, err := s.Child.GetNextTuple(ec)
		if err != nil || !ok {
			return nil, ok, err
		}
		sel := chunk.Sel
		n := int64(sel.Len())
		before := s.skipped.Add(n) - n
		if before >= s.N {
			return chunk, true, nil
		}
		skip := int(s.N - before)
		if skip >= sel.Len() {
			continue
		}
		kept := vector.NewIdentitySelection(0)
		kept.Size = sel.Len() - skip
		kept.Positions = make([]uint32, kept.Size)
		for i := 0; i < kept.Size; i++ {
			kept.Positions[i] = uint32(sel.At(skip + i))
		}
		return vector.NewDataChunk(chunk.Vectors, kept), true, nil
	}
}

func (s *Skip) Clone() Operator {
	return &Skip{baseOperator: s.baseOperator, Child: s.Child.Clone(), N: s.N, skipped: s.skipped}
}

func (s *Skip) IsSource() bool { return false }
