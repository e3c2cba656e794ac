package expr

import (
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/overflow"
	"github.com/cuemby/graphdb/internal/vector"
)

// SlotEvaluator is a leaf that binds to an existing result-set slot —
// its Evaluate is a no-op; it simply exposes the chunk's own vector.
type SlotEvaluator struct {
	Pos  DataPos
	Type catalog.LogicalType

	result *vector.Vector
}

func NewSlotEvaluator(pos DataPos, t catalog.LogicalType) *SlotEvaluator {
	return &SlotEvaluator{Pos: pos, Type: t}
}

func (s *SlotEvaluator) Evaluate(ctx *EvalContext) error {
	s.result = ctx.Vector(s.Pos)
	return nil
}

func (s *SlotEvaluator) Select(ctx *EvalContext, out []uint32) (int, error) {
	if s.Type.ID != catalog.BOOL {
		return 0, errNotBool(s.Type)
	}
	sel := ctx.Selection(s.Pos)
	n := 0
	for i := 0; i < sel.Len(); i++ {
		pos := sel.At(i)
		if !s.result.IsNull(pos) && s.result.GetBool(pos) {
			if n < len(out) {
				out[n] = uint32(pos)
			}
			n++
		}
	}
	return n, nil
}

func (s *SlotEvaluator) ResultType() catalog.LogicalType { return s.Type }
func (s *SlotEvaluator) Result() *vector.Vector          { return s.result }
func (s *SlotEvaluator) IsResultFlat(ctx *EvalContext) bool {
	return ctx.Selection(s.Pos).Flat
}

// ConstantEvaluator is a leaf carrying a literal value. Its result
// vector is pre-filled at every physical slot the enclosing chunk may
// address, so it never needs special-case broadcasting logic in the
// vectorized primitives.
type ConstantEvaluator struct {
	Type  catalog.LogicalType
	Value any

	// Ovf backs STRING/LIST/PATH literals wider than the overflow
	// descriptor's inline capacity; unused (and may be left nil) for
	// every other logical type.
	Ovf *overflow.File

	result *vector.Vector
	filled bool
}

func NewConstantEvaluator(t catalog.LogicalType, value any, capacity int) *ConstantEvaluator {
	return &ConstantEvaluator{Type: t, Value: value, result: vector.New(t, capacity)}
}

func (c *ConstantEvaluator) Evaluate(ctx *EvalContext) error {
	if c.filled {
		return nil
	}
	if c.Type.ID.IsVariableWidth() {
		c.result.Ovf = c.Ovf
	}
	for i := 0; i < c.result.Capacity; i++ {
		if c.Value == nil {
			c.result.SetNull(i, true)
			continue
		}
		switch c.Type.ID {
		case catalog.INT64:
			c.result.SetInt64(i, c.Value.(int64))
		case catalog.DOUBLE:
			c.result.SetFloat64(i, c.Value.(float64))
		case catalog.BOOL:
			c.result.SetBool(i, c.Value.(bool))
		case catalog.NODE, catalog.REL:
			c.result.SetNodeOffset(i, c.Value.(uint64))
		case catalog.STRING:
			if err := c.result.SetString(i, c.Value.(string)); err != nil {
				return err
			}
		case catalog.LIST, catalog.PATH:
			if err := c.result.SetUint64List(i, c.Value.([]uint64)); err != nil {
				return err
			}
		}
	}
	c.filled = true
	return nil
}

func (c *ConstantEvaluator) Select(ctx *EvalContext, out []uint32) (int, error) {
	if c.Type.ID != catalog.BOOL {
		return 0, errNotBool(c.Type)
	}
	if c.Value == nil || !c.Value.(bool) {
		return 0, nil
	}
	sel := ctx.Chunks[0].Sel
	n := 0
	for i := 0; i < sel.Len() && n < len(out); i++ {
		out[n] = uint32(sel.At(i))
		n++
	}
	return n, nil
}

func (c *ConstantEvaluator) ResultType() catalog.LogicalType   { return c.Type }
func (c *ConstantEvaluator) Result() *vector.Vector            { return c.result }
func (c *ConstantEvaluator) IsResultFlat(ctx *EvalContext) bool { return true }
