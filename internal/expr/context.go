package expr

import "github.com/cuemby/graphdb/internal/vector"

// DataPos addresses one vector within the active result set by
// (chunk position, vector position), per spec §3.
type DataPos struct {
	ChunkPos  int
	VectorPos int
}

// EvalContext is the active result-set window an expression tree
// evaluates against — typically the single DataChunk the enclosing
// physical operator currently holds.
type EvalContext struct {
	Chunks []*vector.DataChunk
}

func (c *EvalContext) Vector(pos DataPos) *vector.Vector {
	return c.Chunks[pos.ChunkPos].Vectors[pos.VectorPos]
}

func (c *EvalContext) Selection(pos DataPos) *vector.SelectionState {
	return c.Chunks[pos.ChunkPos].Sel
}
