package querydoc

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/graphdb/internal/bind"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/plan/querygraph"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// Document is the on-the-wire/on-disk shape of a single statement.
type Document struct {
	Match   []MatchClause          `yaml:"match"`
	Unwind  []UnwindClause         `yaml:"unwind,omitempty"`
	Where   *Expr                  `yaml:"where,omitempty"`
	Return  []Projection           `yaml:"return"`
	OrderBy []OrderItem            `yaml:"order_by,omitempty"`
	Skip    *int64                 `yaml:"skip,omitempty"`
	Limit   *int64                 `yaml:"limit,omitempty"`
	Params  map[string]interface{} `yaml:"params,omitempty"`
	Explain bool                   `yaml:"explain,omitempty"`
	Profile bool                   `yaml:"profile,omitempty"`
}

// UnwindClause is one UNWIND clause: a list-valued expression and the
// alias its elements are bound to. ElemType names the logical type one
// element evaluates to ("INT64", "NODE", ...); it defaults to INT64.
type UnwindClause struct {
	Expr     Expr   `yaml:"expr"`
	Alias    string `yaml:"alias"`
	ElemType string `yaml:"elem_type,omitempty"`
}

// MatchClause is one MATCH pattern: the node and relationship
// variables it introduces.
type MatchClause struct {
	Nodes []NodeSpec `yaml:"nodes"`
	Rels  []RelSpec  `yaml:"rels,omitempty"`
}

// NodeSpec names one node variable and the label it is anchored to.
type NodeSpec struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label,omitempty"`
}

// RelSpec names one relationship variable, the node variables it
// connects, and the direction it traverses. Lower/Upper encode a
// variable-length hop pattern (`*lower..upper`); omit both for an
// ordinary single-hop edge.
type RelSpec struct {
	Name      string `yaml:"name"`
	Src       string `yaml:"src"`
	Dst       string `yaml:"dst"`
	Label     string `yaml:"label,omitempty"`
	Direction string `yaml:"direction,omitempty"` // "forward" (default) or "backward"
	Lower     *int   `yaml:"lower,omitempty"`
	Upper     *int   `yaml:"upper,omitempty"`
	TrackPath bool   `yaml:"track_path,omitempty"`
}

// Expr is a tagged-union expression node: exactly one of Var,
// Property, Literal, Param, or Op+Args should be set.
type Expr struct {
	Var      string      `yaml:"var,omitempty"`
	Property *PropExpr   `yaml:"property,omitempty"`
	Literal  *LiteralVal `yaml:"literal,omitempty"`
	Param    *ParamVal   `yaml:"param,omitempty"`
	Op       string      `yaml:"op,omitempty"`
	Args     []Expr      `yaml:"args,omitempty"`
}

// PropExpr accesses a property on the value Base evaluates to.
type PropExpr struct {
	Base Expr   `yaml:"base"`
	Name string `yaml:"name"`
}

// LiteralVal is a typed constant: Type names a catalog.LogicalTypeID
// ("INT64", "DOUBLE", "BOOL", "STRING", "DATE", "TIMESTAMP", "LIST").
// ChildType is required when Type is "LIST" and names the element
// type ("INT64" or "NODE"); Value is then a YAML sequence of integers.
type LiteralVal struct {
	Type      string      `yaml:"type"`
	ChildType string      `yaml:"child_type,omitempty"`
	Value     interface{} `yaml:"value"`
}

// ParamVal is a named, typed parameter placeholder.
type ParamVal struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Projection is one RETURN/WITH item.
type Projection struct {
	Expr      Expr       `yaml:"expr"`
	Alias     string     `yaml:"alias"`
	Aggregate *Aggregate `yaml:"aggregate,omitempty"`
}

// Aggregate names one aggregate function application.
type Aggregate struct {
	Func     string `yaml:"func"`
	Arg      Expr   `yaml:"arg"`
	Distinct bool   `yaml:"distinct,omitempty"`
}

// OrderItem is one ORDER BY term.
type OrderItem struct {
	Expr Expr `yaml:"expr"`
	Desc bool `yaml:"desc,omitempty"`
}

// Parse decodes a YAML document into its raw Document form.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, dberr.Wrap(dberr.KindParseError, err, "decode query document")
	}
	return &doc, nil
}

// Bind resolves a parsed Document into a bind.BoundQuery, looking up
// each named logical type against catalog.ParseLogicalTypeID.
func (d *Document) Bind() (*bind.BoundQuery, error) {
	matches := make([]bind.BoundMatchPattern, len(d.Match))
	for i, m := range d.Match {
		g := &querygraph.Graph{}
		index := map[string]int{}
		for _, n := range m.Nodes {
			idx := g.AddNode(querygraph.QueryNode{Name: n.Name, Label: n.Label})
			index[n.Name] = idx
		}
		for _, r := range m.Rels {
			src, ok := index[r.Src]
			if !ok {
				return nil, dberr.New(dberr.KindBindError, "rel %q references unknown node variable %q", r.Name, r.Src)
			}
			dst, ok := index[r.Dst]
			if !ok {
				return nil, dberr.New(dberr.KindBindError, "rel %q references unknown node variable %q", r.Name, r.Dst)
			}
			dir := catalog.Forward
			if r.Direction == "backward" {
				dir = catalog.Backward
			}
			rel := querygraph.QueryRel{
				Name: r.Name, Src: src, Dst: dst, Label: r.Label,
				Direction: dir, Bound: src == dst,
			}
			if r.Lower != nil || r.Upper != nil {
				if r.Upper == nil {
					return nil, dberr.New(dberr.KindBindError, "rel %q sets lower without upper", r.Name)
				}
				lower := 1
				if r.Lower != nil {
					lower = *r.Lower
				}
				if lower < 0 || *r.Upper < lower {
					return nil, dberr.New(dberr.KindBindError, "rel %q has an invalid hop range [%d..%d]", r.Name, lower, *r.Upper)
				}
				rel.Variable = true
				rel.Lower = lower
				rel.Upper = *r.Upper
				rel.TrackPath = r.TrackPath
			}
			g.AddRel(rel)
		}
		matches[i] = bind.BoundMatchPattern{Graph: g}
	}

	unwinds := make([]bind.BoundUnwindItem, len(d.Unwind))
	for i, u := range d.Unwind {
		e, err := u.Expr.bind()
		if err != nil {
			return nil, err
		}
		elemType := catalog.Primitive(catalog.INT64)
		if u.ElemType != "" {
			elemType, err = parseType(u.ElemType)
			if err != nil {
				return nil, err
			}
		}
		if u.Alias == "" {
			return nil, dberr.New(dberr.KindBindError, "unwind clause has no alias")
		}
		unwinds[i] = bind.BoundUnwindItem{Expr: e, Alias: u.Alias, ElemType: elemType}
	}

	var where *bind.BoundExpression
	if d.Where != nil {
		e, err := d.Where.bind()
		if err != nil {
			return nil, err
		}
		where = &e
	}

	projection := make([]bind.BoundProjectionItem, len(d.Return))
	for i, p := range d.Return {
		e, err := p.Expr.bind()
		if err != nil {
			return nil, err
		}
		item := bind.BoundProjectionItem{Expr: e, Alias: p.Alias}
		if p.Aggregate != nil {
			arg, err := p.Aggregate.Arg.bind()
			if err != nil {
				return nil, err
			}
			item.Aggregate = &bind.AggregateCall{Func: p.Aggregate.Func, Arg: arg, Distinct: p.Aggregate.Distinct}
		}
		projection[i] = item
	}

	orderBy := make([]bind.BoundOrderItem, len(d.OrderBy))
	for i, o := range d.OrderBy {
		e, err := o.Expr.bind()
		if err != nil {
			return nil, err
		}
		orderBy[i] = bind.BoundOrderItem{Expr: e, Desc: o.Desc}
	}

	return &bind.BoundQuery{
		Matches:    matches,
		Unwinds:    unwinds,
		Where:      where,
		Projection: projection,
		OrderBy:    orderBy,
		Skip:       d.Skip,
		Limit:      d.Limit,
		IsExplain:  d.Explain,
		IsProfile:  d.Profile,
	}, nil
}

// Params resolves the document's params map against their declared
// types is not needed here: execute_with_params takes raw Go values
// keyed by name, so the document's params map passes straight
// through once YAML's native int/float/bool/string decoding has run.
func (d *Document) ParamValues() map[string]any {
	return d.Params
}

func (e Expr) bind() (bind.BoundExpression, error) {
	switch {
	case e.Var != "":
		return bind.Variable(e.Var), nil
	case e.Property != nil:
		base, err := e.Property.Base.bind()
		if err != nil {
			return bind.BoundExpression{}, err
		}
		return bind.PropertyOf(base, e.Property.Name), nil
	case e.Literal != nil:
		if e.Literal.Type == "LIST" {
			child, err := parseType(e.Literal.ChildType)
			if err != nil {
				return bind.BoundExpression{}, err
			}
			vals, err := coerceListLiteral(e.Literal.Value)
			if err != nil {
				return bind.BoundExpression{}, err
			}
			return bind.Literal(catalog.ListOf(child), vals), nil
		}
		t, err := parseType(e.Literal.Type)
		if err != nil {
			return bind.BoundExpression{}, err
		}
		val, err := coerceLiteral(t, e.Literal.Value)
		if err != nil {
			return bind.BoundExpression{}, err
		}
		return bind.Literal(t, val), nil
	case e.Param != nil:
		t, err := parseType(e.Param.Type)
		if err != nil {
			return bind.BoundExpression{}, err
		}
		return bind.ParamRef(e.Param.Name, t), nil
	case e.Op != "":
		children := make([]bind.BoundExpression, len(e.Args))
		for i, a := range e.Args {
			c, err := a.bind()
			if err != nil {
				return bind.BoundExpression{}, err
			}
			children[i] = c
		}
		return bind.Apply(e.Op, children...), nil
	default:
		return bind.BoundExpression{}, dberr.New(dberr.KindParseError, "expression node has no var/property/literal/param/op set")
	}
}

func parseType(name string) (catalog.LogicalType, error) {
	switch name {
	case "INT64":
		return catalog.Primitive(catalog.INT64), nil
	case "DOUBLE":
		return catalog.Primitive(catalog.DOUBLE), nil
	case "BOOL":
		return catalog.Primitive(catalog.BOOL), nil
	case "STRING":
		return catalog.Primitive(catalog.STRING), nil
	case "DATE":
		return catalog.Primitive(catalog.DATE), nil
	case "TIMESTAMP":
		return catalog.Primitive(catalog.TIMESTAMP), nil
	case "NODE":
		return catalog.Primitive(catalog.NODE), nil
	case "REL":
		return catalog.Primitive(catalog.REL), nil
	default:
		return catalog.LogicalType{}, dberr.New(dberr.KindParseError, "unknown logical type %q", name)
	}
}

// coerceListLiteral normalizes a YAML-decoded sequence of whole
// numbers into the []uint64 a LIST-typed literal evaluates to.
func coerceListLiteral(v interface{}) ([]uint64, error) {
	seq, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("LIST literal value %v is not a sequence", v)
	}
	out := make([]uint64, len(seq))
	for i, e := range seq {
		switch n := e.(type) {
		case int:
			out[i] = uint64(n)
		case int64:
			out[i] = uint64(n)
		default:
			return nil, fmt.Errorf("LIST literal element %v is not an integer", e)
		}
	}
	return out, nil
}

// coerceLiteral normalizes YAML's decoded scalar (int, float64, bool,
// string) to the Go type the expression evaluator expects for t,
// since YAML always decodes whole numbers as int rather than int64.
func coerceLiteral(t catalog.LogicalType, v interface{}) (interface{}, error) {
	switch t.ID {
	case catalog.INT64, catalog.DATE, catalog.TIMESTAMP:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		default:
			return nil, fmt.Errorf("literal value %v is not an integer", v)
		}
	case catalog.DOUBLE:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		default:
			return nil, fmt.Errorf("literal value %v is not a number", v)
		}
	default:
		return v, nil
	}
}
