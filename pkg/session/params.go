package session

import "github.com/cuemby/graphdb/internal/bind"

// substituteParams returns a copy of bq with every bind.ParamRef leaf
// replaced by the literal value params supplies, leaving unmatched
// placeholders in place (the compiler surfaces them as a BindError
// when it tries to evaluate a still-unresolved ParamName).
func substituteParams(bq bind.BoundQuery, params map[string]any) bind.BoundQuery {
	out := bq
	if bq.Where != nil {
		w := substituteExpr(*bq.Where, params)
		out.Where = &w
	}
	out.Projection = make([]bind.BoundProjectionItem, len(bq.Projection))
	for i, p := range bq.Projection {
		p.Expr = substituteExpr(p.Expr, params)
		if p.Aggregate != nil {
			agg := *p.Aggregate
			agg.Arg = substituteExpr(agg.Arg, params)
			p.Aggregate = &agg
		}
		out.Projection[i] = p
	}
	out.OrderBy = make([]bind.BoundOrderItem, len(bq.OrderBy))
	for i, o := range bq.OrderBy {
		o.Expr = substituteExpr(o.Expr, params)
		out.OrderBy[i] = o
	}
	return out
}

func substituteExpr(e bind.BoundExpression, params map[string]any) bind.BoundExpression {
	if e.Kind == bind.ExprLiteral {
		if name, ok := e.Literal.(bind.ParamName); ok {
			if v, present := params[string(name)]; present {
				e.Literal = v
			}
		}
		return e
	}
	if len(e.Children) == 0 {
		return e
	}
	children := make([]bind.BoundExpression, len(e.Children))
	for i, c := range e.Children {
		children[i] = substituteExpr(c, params)
	}
	e.Children = children
	return e
}
