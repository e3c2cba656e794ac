package exec

import (
	"github.com/cuemby/graphdb/internal/expr"
	"github.com/cuemby/graphdb/internal/vector"
)

// Projection evaluates one expr.Evaluator per output column against
// the child's chunk and assembles the results into a new chunk,
// dropping any columns the RETURN/WITH clause did not name (spec
// §4.8).
type Projection struct {
	baseOperator

	Child Operator
	Exprs []expr.Evaluator
}

func NewProjection(id int, child Operator, exprs []expr.Evaluator) *Projection {
	return &Projection{baseOperator: baseOperator{id}, Child: child, Exprs: exprs}
}

func (p *Projection) InitLocalState(ec *ExecContext) error { return p.Child.InitLocalState(ec) }

func (p *Projection) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	chunk, ok, err := p.Child.GetNextTuple(ec)
	if err != nil || !ok {
		return nil, ok, err
	}
	evalCtx := &expr.EvalContext{Chunks: []*vector.DataChunk{chunk}}
	outVectors := make([]*vector.Vector, len(p.Exprs))
	for i, e := range p.Exprs {
		if err := e.Evaluate(evalCtx); err != nil {
			return nil, false, err
		}
		outVectors[i] = e.Result()
	}
	return vector.NewDataChunk(outVectors, chunk.Sel), true, nil
}

func (p *Projection) Clone() Operator {
	return &Projection{baseOperator: p.baseOperator, Child: p.Child.Clone(), Exprs: p.Exprs}
}

func (p *Projection) IsSource() bool { return false }

// Filter evaluates a boolean predicate evaluator against the child's
// chunk and narrows the shared selection to rows where it is true,
// flattening down to a single-row flat selection when exactly one
// survives (spec §4.8).
type Filter struct {
	baseOperator

	Child     Operator
	Predicate expr.Evaluator
}

func NewFilter(id int, child Operator, predicate expr.Evaluator) *Filter {
	return &Filter{baseOperator: baseOperator{id}, Child: child, Predicate: predicate}
}

func (f *Filter) InitLocalState(ec *ExecContext) error { return f.Child.InitLocalState(ec) }

func (f *Filter) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	for {
		chunk, ok, err := f.Child.GetNextTuple(ec)
		if err != nil || !ok {
			return nil, ok, err
		}
		evalCtx := &expr.EvalContext{Chunks: []*vector.DataChunk{chunk}}
		if err := f.Predicate.Evaluate(evalCtx); err != nil {
			return nil, false, err
		}
		positions := make([]uint32, chunk.Sel.Len())
		n, err := f.Predicate.Select(evalCtx, positions)
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			continue
		}
		sel := &vector.SelectionState{Positions: positions[:n], Size: n}
		return vector.NewDataChunk(chunk.Vectors, sel.Flatten()), true, nil
	}
}

func (f *Filter) Clone() Operator {
	return &Filter{baseOperator: f.baseOperator, Child: f.Child.Clone(), Predicate: f.Predicate}
}

func (f *Filter) IsSource() bool { return false }

// Flatten converts an unflat chunk selection into one flat row per
// call, letting a downstream row-at-a-time operator (HashJoinProbe,
// RecursiveJoin's source pull) consume an upstream unflat batch
// without itself handling unflat selections (spec §4.8).
type Flatten struct {
	baseOperator

	Child   Operator
	current *vector.DataChunk
	pos     int
}

func NewFlatten(id int, child Operator) *Flatten {
	return &Flatten{baseOperator: baseOperator{id}, Child: child}
}

func (f *Flatten) InitLocalState(ec *ExecContext) error { return f.Child.InitLocalState(ec) }

func (f *Flatten) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	for {
		if f.current == nil {
			chunk, ok, err := f.Child.GetNextTuple(ec)
			if err != nil || !ok {
				return nil, ok, err
			}
			f.current = chunk
			f.pos = 0
		}
		if f.pos >= f.current.Sel.Len() {
			f.current = nil
			continue
		}
		slot := f.current.Sel.At(f.pos)
		f.pos++
		return vector.NewDataChunk(f.current.Vectors, vector.NewFlatSelection(slot)), true, nil
	}
}

func (f *Flatten) Clone() Operator {
	return &Flatten{baseOperator: f.baseOperator, Child: f.Child.Clone()}
}

func (f *Flatten) IsSource() bool { return false }
