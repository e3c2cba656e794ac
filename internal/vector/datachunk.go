package vector

// DataChunk is an ordered sequence of value-vectors that share one
// selection state (spec §3: "vectors in one chunk are always
// co-iterated").
type DataChunk struct {
	Vectors []*Vector
	Sel     *SelectionState
}

func NewDataChunk(vectors []*Vector, sel *SelectionState) *DataChunk {
	return &DataChunk{Vectors: vectors, Sel: sel}
}

// IsFlat reports whether the chunk's shared selection is flat —
// "co-flatness" (spec §3) means every vector in the chunk answers the
// same way.
func (c *DataChunk) IsFlat() bool {
	return c.Sel.Flat
}

// Flatten replaces the chunk's selection with a flat one, valid only
// when the unflat selection has already been reduced to one surviving
// position (e.g. after a multiplicity-reducing filter).
func (c *DataChunk) Flatten() {
	c.Sel = c.Sel.Flatten()
}
