package exec

import (
	"context"

	"github.com/cuemby/graphdb/internal/vector"
)

// ExecContext carries the per-query state every operator needs:
// cancellation, the shared morsel/result-set capacity, and (via
// embedding) anything a specific operator additionally requires.
type ExecContext struct {
	Ctx      context.Context
	Capacity int
}

// Operator is the contract every physical execution operator
// implements (spec §4.8).
type Operator interface {
	InitLocalState(ec *ExecContext) error
	GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error)
	Clone() Operator
	IsSource() bool
	ID() int
}

// baseOperator factors out the id every operator carries.
type baseOperator struct {
	id int
}

func (b *baseOperator) ID() int { return b.id }
