package session

import (
	"fmt"

	"github.com/cuemby/graphdb/internal/bind"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/exec"
	"github.com/cuemby/graphdb/internal/expr"
	"github.com/cuemby/graphdb/internal/plan/enumerate"
	"github.com/cuemby/graphdb/internal/plan/physical"
	"github.com/cuemby/graphdb/internal/plan/querygraph"
	"github.com/cuemby/graphdb/internal/storage/column"
	"github.com/cuemby/graphdb/pkg/config"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// compiledPlan is a BoundQuery mapped all the way down to a runnable
// operator tree: the root operator, the candidate the enumerator
// chose (kept for EnumeratePlans/ExecutePlan), and the output schema
// a Connection renders rows against.
type compiledPlan struct {
	root      exec.Operator
	candidate *enumerate.Candidate
	columns   []string
	types     []catalog.LogicalType
}

// compiler holds the per-compile scratch state threaded through the
// BoundQuery -> operator-tree passes: the chosen MATCH pattern's query
// graph, the physical mapper's slot bindings, and every property slot
// materialized so far via a ScanNodeProperty insertion (keyed
// "variable.property") so repeated references to the same property
// within one statement don't re-scan the column.
type compiler struct {
	db       *Database
	graph    *querygraph.Graph
	ctx      *physical.MapperContext
	varType  map[string]catalog.LogicalType
	varLabel map[string]string
	propSlot map[string]expr.DataPos
	nextSlot int
}

// compile maps bq onto an executable operator tree (spec §4.7).
//
// Only the first MATCH pattern drives plan enumeration — chaining
// multiple MATCH/WITH clauses into one combined query graph is future
// work (see DESIGN.md); a statement with more than one pattern is
// rejected with an UnsupportedExpression error rather than silently
// dropping the rest.
func (c *Connection) compile(bq *bind.BoundQuery) (*compiledPlan, error) {
	if len(bq.Matches) == 0 {
		return nil, dberr.New(dberr.KindBindError, "query has no MATCH pattern")
	}
	if len(bq.Matches) > 1 {
		return nil, dberr.New(dberr.KindUnsupportedExpression, "chaining multiple MATCH patterns in one statement is not yet supported")
	}
	pattern := bq.Matches[0]
	graph := pattern.Graph

	cp := &compiler{
		db:       c.db,
		graph:    graph,
		ctx:      physical.NewMapperContext(),
		varType:  make(map[string]catalog.LogicalType),
		varLabel: make(map[string]string),
		propSlot: make(map[string]expr.DataPos),
	}
	for _, n := range graph.Nodes {
		cp.varType[n.Name] = catalog.Primitive(catalog.NODE)
		cp.varLabel[n.Name] = n.Label
	}
	for _, r := range graph.Rels {
		switch {
		case r.Variable && r.TrackPath:
			cp.varType[r.Name] = catalog.Primitive(catalog.PATH)
		case r.Variable:
			cp.varType[r.Name] = catalog.Primitive(catalog.INT64) // hop count reached
		default:
			cp.varType[r.Name] = catalog.Primitive(catalog.REL)
		}
	}

	stats := enumerate.Stats{
		NodeLabelCardinality: func(label string) float64 {
			return float64(c.db.Store.NodeMaxOffset(label)) + 1
		},
		RelFanOut: func(label string, cardinality catalog.Cardinality) float64 {
			if cardinality == catalog.OneToOne || cardinality == catalog.ManyToOne {
				return 1
			}
			return 8 // unknown fan-out: a flat estimate, refined once histogram stats exist
		},
	}
	candidate, err := enumerate.New(graph, stats).Enumerate()
	if err != nil {
		return nil, err
	}

	op, err := physical.Build(cp.ctx, graph, candidate, c.db.Store)
	if err != nil {
		return nil, err
	}
	cp.nextSlot = nextFreeSlot(cp.ctx, graph)

	op, err = cp.materializeProperties(op, bq)
	if err != nil {
		return nil, err
	}

	for _, u := range bq.Unwinds {
		listEval, err := cp.buildEvaluator(u.Expr)
		if err != nil {
			return nil, err
		}
		op = exec.NewUnwind(cp.ctx.NextOpID(), op, listEval, u.ElemType)
		cp.ctx.BindSlot(u.Alias, expr.DataPos{ChunkPos: 0, VectorPos: cp.nextSlot})
		cp.varType[u.Alias] = u.ElemType
		cp.nextSlot++
	}

	if bq.Where != nil {
		pred, err := cp.buildEvaluator(*bq.Where)
		if err != nil {
			return nil, err
		}
		op = exec.NewFilter(cp.ctx.NextOpID(), op, pred)
	}

	op, columns, types, err := cp.buildProjection(op, bq)
	if err != nil {
		return nil, err
	}

	if len(bq.OrderBy) > 0 {
		keys := make([]exec.SortKey, 0, len(bq.OrderBy))
		for _, o := range bq.OrderBy {
			pos, ok := findProjectionPos(bq.Projection, o.Expr)
			if !ok {
				return nil, dberr.New(dberr.KindUnsupportedExpression, "ORDER BY term must also appear in the RETURN/WITH list")
			}
			keys = append(keys, exec.SortKey{Pos: pos, Desc: o.Desc})
		}
		op = exec.NewOrderBy(cp.ctx.NextOpID(), op, keys, types)
	}
	if bq.Skip != nil {
		op = exec.NewSkip(cp.ctx.NextOpID(), op, *bq.Skip)
	}
	if bq.Limit != nil {
		op = exec.NewLimit(cp.ctx.NextOpID(), op, *bq.Limit)
	}

	op = exec.NewResultCollector(cp.ctx.NextOpID(), op)

	return &compiledPlan{root: op, candidate: candidate, columns: columns, types: types}, nil
}

// nextFreeSlot finds the first output vector position the physical
// mapper did not already bind, so property materialization appends
// rather than collides with an Extend-bound node/rel slot.
func nextFreeSlot(ctx *physical.MapperContext, graph *querygraph.Graph) int {
	max := -1
	for _, n := range graph.Nodes {
		if pos, ok := ctx.Slot(n.Name); ok && pos.VectorPos > max {
			max = pos.VectorPos
		}
	}
	for _, r := range graph.Rels {
		if pos, ok := ctx.Slot(r.Name); ok && pos.VectorPos > max {
			max = pos.VectorPos
		}
	}
	return max + 1
}

// materializeProperties walks every property access in bq's WHERE,
// RETURN/WITH, and ORDER BY expressions and inserts one
// ScanNodeProperty per referenced node variable, batching every
// property that variable needs into a single operator.
func (c *compiler) materializeProperties(op exec.Operator, bq *bind.BoundQuery) (exec.Operator, error) {
	needed := make(map[string]map[string]bool) // variable -> property set
	collect := func(e *bind.BoundExpression) {
		walkExpr(e, func(node bind.BoundExpression) {
			if node.Kind != bind.ExprProperty || len(node.Children) != 1 || node.Children[0].Kind != bind.ExprVariable {
				return
			}
			v := node.Children[0].Variable
			if needed[v] == nil {
				needed[v] = make(map[string]bool)
			}
			needed[v][node.Property] = true
		})
	}
	if bq.Where != nil {
		collect(bq.Where)
	}
	for _, u := range bq.Unwinds {
		e := u.Expr
		collect(&e)
	}
	for _, p := range bq.Projection {
		e := p.Expr
		collect(&e)
		if p.Aggregate != nil {
			a := p.Aggregate.Arg
			collect(&a)
		}
	}
	for _, o := range bq.OrderBy {
		e := o.Expr
		collect(&e)
	}
	if len(needed) == 0 {
		return op, nil
	}

	for _, n := range c.graph.Nodes {
		props, ok := needed[n.Name]
		if !ok {
			continue
		}
		label, ok := c.db.Catalog.NodeLabel(n.Label)
		if !ok {
			return nil, dberr.New(dberr.KindBindError, "unknown node label %q", n.Label)
		}
		ns, ok := c.db.Store.NodeStore(n.Label)
		if !ok {
			return nil, dberr.New(dberr.KindRuntimeError, "no storage opened for node label %q", n.Label)
		}
		pos, ok := c.ctx.Slot(n.Name)
		if !ok {
			return nil, dberr.New(dberr.KindPlanError, "variable %q has no bound slot", n.Name)
		}

		var cols []*column.Column
		var types []catalog.LogicalType
		for propName := range props {
			p, ok := label.Property(propName)
			if !ok {
				return nil, dberr.New(dberr.KindBindError, "label %q has no property %q", n.Label, propName)
			}
			cols = append(cols, ns.Columns[p.ColumnIndex])
			types = append(types, p.Type)
			c.propSlot[n.Name+"."+propName] = expr.DataPos{ChunkPos: 0, VectorPos: c.nextSlot}
			c.nextSlot++
		}
		op = exec.NewScanNodeProperty(c.ctx.NextOpID(), op, pos.VectorPos, cols, types)
	}
	return op, nil
}

func walkExpr(e *bind.BoundExpression, visit func(bind.BoundExpression)) {
	visit(*e)
	for i := range e.Children {
		walkExpr(&e.Children[i], visit)
	}
}

// buildProjection assembles the output operator(s) for bq's
// projection list: a plain Projection for a non-aggregating RETURN,
// or a Projection+Aggregate+Projection sandwich when any item wraps
// an aggregate call. Aggregate GROUP BY/output keys are restricted to
// bound node/rel variables (not arbitrary expressions) — the
// execution-layer Aggregate operator folds group keys as raw 8-byte
// offsets, so a key must already be offset-shaped.
func (c *compiler) buildProjection(op exec.Operator, bq *bind.BoundQuery) (exec.Operator, []string, []catalog.LogicalType, error) {
	hasAgg := false
	for _, p := range bq.Projection {
		if p.Aggregate != nil {
			hasAgg = true
			break
		}
	}

	columns := make([]string, len(bq.Projection))
	types := make([]catalog.LogicalType, len(bq.Projection))
	for i, p := range bq.Projection {
		columns[i] = p.Alias
	}

	if !hasAgg {
		exprs := make([]expr.Evaluator, len(bq.Projection))
		for i, p := range bq.Projection {
			e, err := c.buildEvaluator(p.Expr)
			if err != nil {
				return nil, nil, nil, err
			}
			exprs[i] = e
			types[i] = e.ResultType()
		}
		return exec.NewProjection(c.ctx.NextOpID(), op, exprs), columns, types, nil
	}

	var keyExprs []expr.Evaluator
	var specs []exec.AggSpec
	finalSlot := make([]int, len(bq.Projection)) // index into keyExprs (negated-1) or specs, per projection item
	for i, p := range bq.Projection {
		if p.Aggregate == nil {
			e, err := c.buildEvaluator(p.Expr)
			if err != nil {
				return nil, nil, nil, err
			}
			if e.ResultType().ID != catalog.NODE && e.ResultType().ID != catalog.REL {
				return nil, nil, nil, dberr.New(dberr.KindUnsupportedExpression, "RETURN item %q must be a bound node/rel variable when the statement also aggregates", p.Alias)
			}
			keyExprs = append(keyExprs, e)
			finalSlot[i] = len(keyExprs) - 1
			types[i] = e.ResultType()
			continue
		}
		argEval, err := c.buildEvaluator(p.Aggregate.Arg)
		if err != nil {
			return nil, nil, nil, err
		}
		fn, resultType, err := aggFuncOf(p.Aggregate.Func)
		if err != nil {
			return nil, nil, nil, err
		}
		specs = append(specs, exec.AggSpec{Func: fn, InputPos: len(keyExprs) + len(specs), Distinct: p.Aggregate.Distinct})
		finalSlot[i] = -(len(specs))
		types[i] = resultType
		keyExprs = append(keyExprs, argEval) // placeholder column carrying the agg input value
	}
	numKeys := len(keyExprs) - len(specs)

	pre := exec.NewProjection(c.ctx.NextOpID(), op, keyExprs)
	agg := exec.NewAggregate(c.ctx.NextOpID(), pre, numKeys, specs)

	final := make([]expr.Evaluator, len(bq.Projection))
	for i, slot := range finalSlot {
		if slot >= 0 {
			final[i] = expr.NewSlotEvaluator(expr.DataPos{ChunkPos: 0, VectorPos: slot}, types[i])
		} else {
			final[i] = expr.NewSlotEvaluator(expr.DataPos{ChunkPos: 0, VectorPos: numKeys + (-slot - 1)}, types[i])
		}
	}
	return exec.NewProjection(c.ctx.NextOpID(), agg, final), columns, types, nil
}

func aggFuncOf(name string) (exec.AggFunc, catalog.LogicalType, error) {
	switch name {
	case "COUNT":
		return exec.AggCount, catalog.Primitive(catalog.INT64), nil
	case "SUM":
		return exec.AggSum, catalog.Primitive(catalog.DOUBLE), nil
	case "AVG":
		return exec.AggAvg, catalog.Primitive(catalog.DOUBLE), nil
	case "MIN":
		return exec.AggMin, catalog.Primitive(catalog.DOUBLE), nil
	case "MAX":
		return exec.AggMax, catalog.Primitive(catalog.DOUBLE), nil
	case "COLLECT":
		return exec.AggCollect, catalog.Primitive(catalog.INT64), nil
	default:
		return 0, catalog.LogicalType{}, dberr.New(dberr.KindUnsupportedExpression, "unknown aggregate function %q", name)
	}
}

// findProjectionPos locates e among bq's projection expressions by
// structural equality, returning its post-projection output column.
func findProjectionPos(items []bind.BoundProjectionItem, e bind.BoundExpression) (int, bool) {
	for i, p := range items {
		if exprEqual(p.Expr, e) {
			return i, true
		}
	}
	return 0, false
}

func exprEqual(a, b bind.BoundExpression) bool {
	if a.Kind != b.Kind || a.Variable != b.Variable || a.Property != b.Property || a.Operator != b.Operator {
		return false
	}
	if a.Kind == bind.ExprLiteral && fmt.Sprint(a.Literal) != fmt.Sprint(b.Literal) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !exprEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// buildEvaluator lowers one BoundExpression into an expr.Evaluator,
// resolving ExprVariable against the physical mapper's slot bindings
// and ExprProperty against the property slots materializeProperties
// already inserted for it.
func (c *compiler) buildEvaluator(e bind.BoundExpression) (expr.Evaluator, error) {
	switch e.Kind {
	case bind.ExprVariable:
		pos, ok := c.ctx.Slot(e.Variable)
		if !ok {
			return nil, dberr.New(dberr.KindBindError, "unbound variable %q", e.Variable)
		}
		t, ok := c.varType[e.Variable]
		if !ok {
			t = catalog.Primitive(catalog.NODE)
		}
		return expr.NewSlotEvaluator(pos, t), nil

	case bind.ExprProperty:
		if len(e.Children) != 1 || e.Children[0].Kind != bind.ExprVariable {
			return nil, dberr.New(dberr.KindUnsupportedExpression, "property access base must be a bound variable")
		}
		v := e.Children[0].Variable
		key := v + "." + e.Property
		pos, ok := c.propSlot[key]
		if !ok {
			return nil, dberr.New(dberr.KindPlanError, "property %q was not materialized before evaluation", key)
		}
		label, ok := c.db.Catalog.NodeLabel(c.varLabel[v])
		if !ok {
			return nil, dberr.New(dberr.KindBindError, "unknown node label %q", c.varLabel[v])
		}
		p, ok := label.Property(e.Property)
		if !ok {
			return nil, dberr.New(dberr.KindBindError, "label %q has no property %q", c.varLabel[v], e.Property)
		}
		return expr.NewSlotEvaluator(pos, p.Type), nil

	case bind.ExprLiteral:
		if name, ok := e.Literal.(bind.ParamName); ok {
			return nil, dberr.New(dberr.KindBindError, "parameter %q was not supplied", string(name))
		}
		ce := expr.NewConstantEvaluator(e.Type, e.Literal, config.DefaultVectorCapacity)
		if e.Type.ID.IsVariableWidth() {
			ce.Ovf = c.db.Store.PathOverflow()
		}
		return ce, nil

	case bind.ExprOperator:
		return c.buildOperator(e)

	default:
		return nil, dberr.New(dberr.KindUnsupportedExpression, "unknown bound expression kind %d", e.Kind)
	}
}
