package physical

import "github.com/cuemby/graphdb/internal/expr"

// MapperContext is the state threaded through one logical-to-physical
// mapping pass (spec §4.7).
type MapperContext struct {
	nextOpID int

	slots    map[string]expr.DataPos
	computed map[string]bool
}

func NewMapperContext() *MapperContext {
	return &MapperContext{
		slots:    make(map[string]expr.DataPos),
		computed: make(map[string]bool),
	}
}

// NextOpID returns a fresh monotonically increasing physical-operator
// id.
func (c *MapperContext) NextOpID() int {
	id := c.nextOpID
	c.nextOpID++
	return id
}

// BindSlot records where name's value lives in the final result-set
// shape.
func (c *MapperContext) BindSlot(name string, pos expr.DataPos) {
	c.slots[name] = pos
}

func (c *MapperContext) Slot(name string) (expr.DataPos, bool) {
	pos, ok := c.slots[name]
	return pos, ok
}

// MarkComputed records that name's expression has already been
// evaluated into a slot, so later references read rather than
// recompute it.
func (c *MapperContext) MarkComputed(name string) {
	c.computed[name] = true
}

func (c *MapperContext) IsComputed(name string) bool {
	return c.computed[name]
}
