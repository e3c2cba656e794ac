package exec

import (
	"sync"

	"github.com/cuemby/graphdb/internal/vector"
)

// ResultCollector is the terminal sink of a physical plan: every
// output chunk is appended, under a lock, to Rows (the chunk's column
// vectors) and Sels (its selection state), which a session turns into
// row-major values after the plan has drained (spec §4.8/§5).
type ResultCollector struct {
	baseOperator

	Child Operator

	mu   sync.Mutex
	Rows [][]*vector.Vector // each entry is one chunk's worth of columns, still column-major per chunk
	Sels []*vector.SelectionState
}

func NewResultCollector(id int, child Operator) *ResultCollector {
	return &ResultCollector{baseOperator: baseOperator{id}, Child: child}
}

func (r *ResultCollector) InitLocalState(ec *ExecContext) error { return r.Child.InitLocalState(ec) }

func (r *ResultCollector) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	chunk, ok, err := r.Child.GetNextTuple(ec)
	if err != nil || !ok {
		return nil, ok, err
	}
	r.mu.Lock()
	r.Rows = append(r.Rows, chunk.Vectors)
	r.Sels = append(r.Sels, chunk.Sel)
	r.mu.Unlock()
	return chunk, true, nil
}

func (r *ResultCollector) Clone() Operator {
	return &ResultCollector{baseOperator: r.baseOperator, Child: r.Child.Clone(), Rows: r.Rows, Sels: r.Sels}
}

func (r *ResultCollector) IsSource() bool { return false }

// RowCount sums the logical size of every collected chunk.
func (r *ResultCollector) RowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.Sels {
		n += s.Len()
	}
	return n
}
