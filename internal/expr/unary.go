package expr

import (
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/vector"
)

// UnaryEvaluator applies one vector.Kind primitive to a single child.
type UnaryEvaluator struct {
	Kind  vector.Kind
	Child Evaluator
	Type  catalog.LogicalType

	result *vector.Vector
	sel    *vector.SelectionState
}

func NewUnaryEvaluator(kind vector.Kind, child Evaluator, resultType catalog.LogicalType, capacity int) *UnaryEvaluator {
	return &UnaryEvaluator{Kind: kind, Child: child, Type: resultType, result: vector.New(resultType, capacity)}
}

func (u *UnaryEvaluator) Evaluate(ctx *EvalContext) error {
	if err := u.Child.Evaluate(ctx); err != nil {
		return err
	}
	u.sel = ctx.Chunks[0].Sel
	return vector.ExecuteUnary(u.Kind, u.Child.Result(), u.sel, u.result)
}

func (u *UnaryEvaluator) Select(ctx *EvalContext, out []uint32) (int, error) {
	if u.Type.ID != catalog.BOOL {
		return 0, errNotBool(u.Type)
	}
	return vector.SelectUnary(u.Kind, u.Child.Result(), ctx.Chunks[0].Sel, out)
}

func (u *UnaryEvaluator) ResultType() catalog.LogicalType { return u.Type }
func (u *UnaryEvaluator) Result() *vector.Vector          { return u.result }
func (u *UnaryEvaluator) IsResultFlat(ctx *EvalContext) bool {
	return u.Child.IsResultFlat(ctx)
}
