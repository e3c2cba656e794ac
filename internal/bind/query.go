package bind

import (
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/plan/querygraph"
)

// BoundExpression is a typed expression tree node as a binder would
// produce it: a variable reference, a property access, a literal, or
// an operator application over child expressions.
type BoundExpression struct {
	Kind     ExpressionKind
	Variable string              // set iff Kind == ExprVariable
	Property string              // set iff Kind == ExprProperty
	Literal  any                 // set iff Kind == ExprLiteral
	Operator string              // set iff Kind == ExprOperator, e.g. "+", "=", "AND"
	Children []BoundExpression
	Type     catalog.LogicalType
}

type ExpressionKind int

const (
	ExprVariable ExpressionKind = iota
	ExprProperty
	ExprLiteral
	ExprOperator
)

// BoundMatchPattern is one MATCH clause already resolved against the
// catalog: its query graph, plus which variables are newly introduced
// versus re-bound to an outer scope's existing binding.
type BoundMatchPattern struct {
	Graph       *querygraph.Graph
	Rebound     map[string]bool // variable name -> true if already bound by an outer clause
	IsOptional  bool
}

// AggregateCall names one aggregate function application within a
// projection item, e.g. COUNT(DISTINCT p.age).
type AggregateCall struct {
	Func     string
	Arg      BoundExpression
	Distinct bool
}

// BoundProjectionItem is one RETURN/WITH item: an expression, its
// output alias, and the aggregate call it wraps, if any.
type BoundProjectionItem struct {
	Expr      BoundExpression
	Alias     string
	Aggregate *AggregateCall // nil for non-aggregate projections
}

// BoundOrderItem is one ORDER BY term.
type BoundOrderItem struct {
	Expr BoundExpression
	Desc bool
}

// BoundUnwindItem is one UNWIND clause: a list-valued expression, the
// alias its elements are bound to, and the logical type one element
// evaluates to (the list's ChildType).
type BoundUnwindItem struct {
	Expr     BoundExpression
	Alias    string
	ElemType catalog.LogicalType
}

// BoundQuery is a single statement fully resolved against the
// catalog: the match patterns that produce its working set, any
// UNWIND clauses expanding a list into rows, an optional WHERE
// predicate, the projection list, and the order/skip/limit overlay
// the projection enumerator applies on top of the join enumeration
// (spec §4.6).
type BoundQuery struct {
	Matches    []BoundMatchPattern
	Unwinds    []BoundUnwindItem
	Where      *BoundExpression
	Projection []BoundProjectionItem
	OrderBy    []BoundOrderItem
	Skip       *int64
	Limit      *int64
	IsExplain  bool
	IsProfile  bool
}

// Variable returns a bound reference to name.
func Variable(name string) BoundExpression {
	return BoundExpression{Kind: ExprVariable, Variable: name}
}

// PropertyOf returns a bound property access on the value base
// evaluates to.
func PropertyOf(base BoundExpression, property string) BoundExpression {
	return BoundExpression{Kind: ExprProperty, Property: property, Children: []BoundExpression{base}}
}

// Literal returns a bound constant of the given logical type.
func Literal(t catalog.LogicalType, value any) BoundExpression {
	return BoundExpression{Kind: ExprLiteral, Literal: value, Type: t}
}

// Apply returns a bound operator application, e.g. Apply("=", lhs, rhs).
func Apply(op string, children ...BoundExpression) BoundExpression {
	return BoundExpression{Kind: ExprOperator, Operator: op, Children: children}
}

// ParamName is the literal carried by a ParamRef expression: a named
// placeholder a caller's execute_with_params fills in at execution
// time rather than at bind time.
type ParamName string

// ParamRef returns a bound reference to a named parameter, of the
// given logical type once substituted.
func ParamRef(name string, t catalog.LogicalType) BoundExpression {
	return BoundExpression{Kind: ExprLiteral, Literal: ParamName(name), Type: t}
}
