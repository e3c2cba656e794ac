package bind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/internal/catalog"
)

func TestBuildersAssembleExpressionTree(t *testing.T) {
	p := Variable("p")
	age := PropertyOf(p, "age")
	pred := Apply("=", age, Literal(catalog.Primitive(catalog.INT64), int64(30)))

	require.Equal(t, ExprOperator, pred.Kind)
	require.Equal(t, "=", pred.Operator)
	require.Len(t, pred.Children, 2)
	require.Equal(t, ExprProperty, pred.Children[0].Kind)
	require.Equal(t, "age", pred.Children[0].Property)
	require.Equal(t, ExprLiteral, pred.Children[1].Kind)
	require.EqualValues(t, 30, pred.Children[1].Literal)
}

func TestBoundQueryCarriesProjectionAndOverlay(t *testing.T) {
	skip := int64(5)
	limit := int64(10)
	q := BoundQuery{
		Projection: []BoundProjectionItem{
			{Expr: Variable("p"), Alias: "p"},
			{Expr: Variable("p"), Alias: "total", Aggregate: &AggregateCall{Func: "COUNT", Arg: Variable("p")}},
		},
		Skip:  &skip,
		Limit: &limit,
	}

	require.Len(t, q.Projection, 2)
	require.Equal(t, "COUNT", q.Projection[1].Aggregate.Func)
	require.EqualValues(t, 5, *q.Skip)
	require.EqualValues(t, 10, *q.Limit)
}

func TestParamRefCarriesUnresolvedName(t *testing.T) {
	ref := ParamRef("minAge", catalog.Primitive(catalog.INT64))
	require.Equal(t, ExprLiteral, ref.Kind)
	name, ok := ref.Literal.(ParamName)
	require.True(t, ok)
	require.Equal(t, ParamName("minAge"), name)
}
