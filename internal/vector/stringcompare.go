package vector

import (
	"bytes"

	"github.com/cuemby/graphdb/internal/storage/overflow"
)

func decodeSlotDescriptor(slot []byte) overflow.Descriptor {
	return overflow.DecodeDescriptor(slot)
}

// stringEquals applies the fast-reject (length + 4-byte prefix) before
// ever resolving either side's bytes from overflow storage (spec
// §4.3's fast-reject, reused here for STRING equality comparisons).
func stringEquals(lhs, rhs *Vector, a, b overflow.Descriptor) (bool, error) {
	if !overflow.PrefixMatches(a, b) {
		return false, nil
	}
	lb, err := lhs.Ovf.Resolve(a)
	if err != nil {
		return false, err
	}
	rb, err := rhs.Ovf.Resolve(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(lb, rb), nil
}
