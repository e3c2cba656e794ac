package expr

import (
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/vector"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// Evaluator is one node of the expression tree (spec §4.5).
type Evaluator interface {
	// Evaluate fills Result() based on ctx and this node's children.
	Evaluate(ctx *EvalContext) error
	// Select writes surviving physical positions into out and returns
	// their count; only valid when ResultType().ID == catalog.BOOL.
	Select(ctx *EvalContext, out []uint32) (int, error)
	ResultType() catalog.LogicalType
	Result() *vector.Vector
	// IsResultFlat reports whether every child (and this node) is
	// result-flat for the given context's active selection.
	IsResultFlat(ctx *EvalContext) bool
}

func errNotBool(t catalog.LogicalType) error {
	return dberr.New(dberr.KindUnsupportedExpression, "Select is only defined for BOOL expressions, got %s", t.ID)
}
