package vector

// SelectionState is shared by every vector in one data chunk (spec
// §3 invariant: "all vectors in a data chunk share exactly one
// selection state"). It is either flat (logical size 1, addressed by
// CurrIdx) or unflat (a list of Positions of length Size).
type SelectionState struct {
	Flat     bool
	CurrIdx  int
	Positions []uint32
	Size     int
}

// NewFlatSelection returns a flat selection positioned at idx.
func NewFlatSelection(idx int) *SelectionState {
	return &SelectionState{Flat: true, CurrIdx: idx}
}

// NewIdentitySelection returns an unflat selection over [0, size).
func NewIdentitySelection(size int) *SelectionState {
	positions := make([]uint32, size)
	for i := range positions {
		positions[i] = uint32(i)
	}
	return &SelectionState{Positions: positions, Size: size}
}

// Len reports the logical length this selection exposes to vectorized
// operators: 1 for flat, Size for unflat.
func (s *SelectionState) Len() int {
	if s.Flat {
		return 1
	}
	return s.Size
}

// At maps logical position i to the underlying vector slot it reads
// or writes.
func (s *SelectionState) At(i int) int {
	if s.Flat {
		return s.CurrIdx
	}
	return int(s.Positions[i])
}

// Flatten converts an unflat selection with a single surviving
// position into a flat one pinned at that position; callers only call
// this once Size has been reduced to 1 by a prior filter.
func (s *SelectionState) Flatten() *SelectionState {
	if s.Flat {
		return s
	}
	if s.Size != 1 {
		return s
	}
	return NewFlatSelection(int(s.Positions[0]))
}
