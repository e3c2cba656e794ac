package overflow

import "encoding/binary"

// InlineCapacity is the largest payload stored directly in a
// Descriptor without touching the overflow file (spec §4.2).
const InlineCapacity = 12

// DescriptorSize is the fixed on-disk/in-column width of a Descriptor.
const DescriptorSize = 16

// Descriptor is the 16-byte variable-width value reference: length,
// a 4-byte prefix for fast-reject comparisons, and either 8 inline
// bytes (a payload of up to 12 bytes is split over Prefix and Inline)
// or an (pageID, offset) overflow pointer.
type Descriptor struct {
	Length uint32
	Prefix [4]byte
	Inline [8]byte // valid iff Length <= InlineCapacity
	PageID uint32  // valid iff Length > InlineCapacity
	Offset uint32  // valid iff Length > InlineCapacity
}

func (d Descriptor) IsInline() bool { return d.Length <= InlineCapacity }

// NewInlineDescriptor builds a descriptor for a value known to fit in
// InlineCapacity bytes.
func NewInlineDescriptor(data []byte) Descriptor {
	var d Descriptor
	d.Length = uint32(len(data))
	copy(d.Prefix[:], data)
	if len(data) > 4 {
		copy(d.Inline[:], data[4:])
	}
	return d
}

// NewOverflowDescriptor builds a descriptor pointing at payload
// material already written to the overflow file.
func NewOverflowDescriptor(data []byte, pageID, off uint32) Descriptor {
	var d Descriptor
	d.Length = uint32(len(data))
	copy(d.Prefix[:], data)
	d.PageID = pageID
	d.Offset = off
	return d
}

// InlineBytes reconstitutes the value from an inline descriptor.
func (d Descriptor) InlineBytes() []byte {
	out := make([]byte, d.Length)
	n := copy(out, d.Prefix[:])
	copy(out[n:], d.Inline[:])
	return out[:d.Length]
}

// Encode serializes the descriptor to its fixed 16-byte wire form.
func (d Descriptor) Encode() [DescriptorSize]byte {
	var b [DescriptorSize]byte
	binary.LittleEndian.PutUint32(b[0:4], d.Length)
	copy(b[4:8], d.Prefix[:])
	if d.IsInline() {
		copy(b[8:16], d.Inline[:])
	} else {
		binary.LittleEndian.PutUint32(b[8:12], d.PageID)
		binary.LittleEndian.PutUint32(b[12:16], d.Offset)
	}
	return b
}

// DecodeDescriptor parses a 16-byte wire form.
func DecodeDescriptor(b []byte) Descriptor {
	var d Descriptor
	d.Length = binary.LittleEndian.Uint32(b[0:4])
	copy(d.Prefix[:], b[4:8])
	if d.IsInline() {
		copy(d.Inline[:], b[8:16])
	} else {
		d.PageID = binary.LittleEndian.Uint32(b[8:12])
		d.Offset = binary.LittleEndian.Uint32(b[12:16])
	}
	return d
}

// PrefixMatches is the fast-reject check: if false, the full values
// are guaranteed unequal and the overflow file need not be read.
func PrefixMatches(a, b Descriptor) bool {
	return a.Length == b.Length && a.Prefix == b.Prefix
}
