package session

import (
	"github.com/cuemby/graphdb/internal/bind"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/expr"
	"github.com/cuemby/graphdb/internal/vector"
	"github.com/cuemby/graphdb/pkg/config"
	"github.com/cuemby/graphdb/pkg/dberr"
)

var comparisonOps = map[string]vector.Kind{
	"=": vector.KindEq, "<>": vector.KindNe,
	"<": vector.KindLt, "<=": vector.KindLe,
	">": vector.KindGt, ">=": vector.KindGe,
}

var boolOps = map[string]vector.Kind{
	"AND": vector.KindAnd, "OR": vector.KindOr, "XOR": vector.KindXor,
}

var arithOps = map[string]vector.Kind{
	"+": vector.KindAdd, "-": vector.KindSub, "*": vector.KindMul,
	"/": vector.KindDiv, "%": vector.KindMod, "^": vector.KindPow,
}

// buildOperator lowers one ExprOperator node, dispatching on arity and
// the teacher-grounded operator-name tables above (spec §4.4/§4.5).
func (c *compiler) buildOperator(e bind.BoundExpression) (expr.Evaluator, error) {
	if e.Operator == "NOT" || (len(e.Children) == 1 && (e.Operator == "-" || e.Operator == "IS NULL" || e.Operator == "IS NOT NULL")) {
		return c.buildUnary(e)
	}
	if len(e.Children) != 2 {
		return nil, dberr.New(dberr.KindUnsupportedExpression, "operator %q expects 2 operands, got %d", e.Operator, len(e.Children))
	}

	lhs, err := c.buildEvaluator(e.Children[0])
	if err != nil {
		return nil, err
	}
	rhs, err := c.buildEvaluator(e.Children[1])
	if err != nil {
		return nil, err
	}

	if kind, ok := comparisonOps[e.Operator]; ok {
		return expr.NewBinaryEvaluator(kind, lhs, rhs, catalog.Primitive(catalog.BOOL), config.DefaultVectorCapacity), nil
	}
	if kind, ok := boolOps[e.Operator]; ok {
		return expr.NewBinaryEvaluator(kind, lhs, rhs, catalog.Primitive(catalog.BOOL), config.DefaultVectorCapacity), nil
	}
	if kind, ok := arithOps[e.Operator]; ok {
		return expr.NewBinaryEvaluator(kind, lhs, rhs, arithResultType(lhs, rhs), config.DefaultVectorCapacity), nil
	}
	return nil, dberr.New(dberr.KindUnsupportedExpression, "unknown binary operator %q", e.Operator)
}

func (c *compiler) buildUnary(e bind.BoundExpression) (expr.Evaluator, error) {
	if len(e.Children) != 1 {
		return nil, dberr.New(dberr.KindUnsupportedExpression, "operator %q expects 1 operand, got %d", e.Operator, len(e.Children))
	}
	child, err := c.buildEvaluator(e.Children[0])
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "NOT":
		return expr.NewUnaryEvaluator(vector.KindNot, child, catalog.Primitive(catalog.BOOL), config.DefaultVectorCapacity), nil
	case "-":
		return expr.NewUnaryEvaluator(vector.KindNegate, child, child.ResultType(), config.DefaultVectorCapacity), nil
	case "IS NULL":
		return expr.NewUnaryEvaluator(vector.KindIsNull, child, catalog.Primitive(catalog.BOOL), config.DefaultVectorCapacity), nil
	case "IS NOT NULL":
		return expr.NewUnaryEvaluator(vector.KindIsNotNull, child, catalog.Primitive(catalog.BOOL), config.DefaultVectorCapacity), nil
	default:
		return nil, dberr.New(dberr.KindUnsupportedExpression, "unknown unary operator %q", e.Operator)
	}
}

// arithResultType widens to DOUBLE if either operand is DOUBLE,
// otherwise keeps INT64 — spec §3's numeric promotion rule.
func arithResultType(lhs, rhs expr.Evaluator) catalog.LogicalType {
	if lhs.ResultType().ID == catalog.DOUBLE || rhs.ResultType().ID == catalog.DOUBLE {
		return catalog.Primitive(catalog.DOUBLE)
	}
	return catalog.Primitive(catalog.INT64)
}
