package expr

import (
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/vector"
)

// BinaryEvaluator applies one vector.Kind primitive to two children.
// Per spec §4.5, a binary node with one flat and one unflat operand
// produces unflat output governed by the unflat operand's selection —
// since every evaluator in a tree shares the active chunk's single
// selection state, this is automatic here rather than a special case.
type BinaryEvaluator struct {
	Kind     vector.Kind
	Lhs, Rhs Evaluator
	Type     catalog.LogicalType

	result *vector.Vector
}

func NewBinaryEvaluator(kind vector.Kind, lhs, rhs Evaluator, resultType catalog.LogicalType, capacity int) *BinaryEvaluator {
	return &BinaryEvaluator{Kind: kind, Lhs: lhs, Rhs: rhs, Type: resultType, result: vector.New(resultType, capacity)}
}

func (b *BinaryEvaluator) Evaluate(ctx *EvalContext) error {
	if err := b.Lhs.Evaluate(ctx); err != nil {
		return err
	}
	if err := b.Rhs.Evaluate(ctx); err != nil {
		return err
	}
	sel := ctx.Chunks[0].Sel
	return vector.ExecuteBinary(b.Kind, b.Lhs.Result(), b.Rhs.Result(), sel, b.result)
}

func (b *BinaryEvaluator) Select(ctx *EvalContext, out []uint32) (int, error) {
	if b.Type.ID != catalog.BOOL {
		return 0, errNotBool(b.Type)
	}
	return vector.SelectBinary(b.Kind, b.Lhs.Result(), b.Rhs.Result(), ctx.Chunks[0].Sel, out)
}

func (b *BinaryEvaluator) ResultType() catalog.LogicalType { return b.Type }
func (b *BinaryEvaluator) Result() *vector.Vector          { return b.result }
func (b *BinaryEvaluator) IsResultFlat(ctx *EvalContext) bool {
	return b.Lhs.IsResultFlat(ctx) && b.Rhs.IsResultFlat(ctx)
}
