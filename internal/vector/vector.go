package vector

import (
	"encoding/binary"
	"math"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/overflow"
)

// Vector is a fixed-capacity batch of values of one logical type, laid
// out exactly like an internal/storage/column slot run: a null bitmap
// followed by capacity fixed-width slots (16-byte overflow
// descriptors for STRING/LIST). Ovf, when set, resolves variable-width
// slots back to their bytes.
type Vector struct {
	Type     catalog.LogicalType
	Capacity int

	slotWidth int
	data      []byte
	nullBits  []byte

	Ovf *overflow.File
}

func New(t catalog.LogicalType, capacity int) *Vector {
	slotWidth := t.ID.FixedWidth()
	return &Vector{
		Type:      t,
		Capacity:  capacity,
		slotWidth: slotWidth,
		data:      make([]byte, capacity*slotWidth),
		nullBits:  make([]byte, (capacity+7)/8),
	}
}

func (v *Vector) IsNull(i int) bool {
	return v.nullBits[i/8]&(1<<(uint(i)%8)) != 0
}

func (v *Vector) SetNull(i int, isNull bool) {
	mask := byte(1 << (uint(i) % 8))
	if isNull {
		v.nullBits[i/8] |= mask
	} else {
		v.nullBits[i/8] &^= mask
	}
}

func (v *Vector) slot(i int) []byte {
	off := i * v.slotWidth
	return v.data[off : off+v.slotWidth]
}

func (v *Vector) GetInt64(i int) int64 {
	return int64(binary.LittleEndian.Uint64(v.slot(i)))
}

func (v *Vector) SetInt64(i int, val int64) {
	binary.LittleEndian.PutUint64(v.slot(i), uint64(val))
	v.SetNull(i, false)
}

func (v *Vector) GetFloat64(i int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(v.slot(i)))
}

func (v *Vector) SetFloat64(i int, val float64) {
	binary.LittleEndian.PutUint64(v.slot(i), math.Float64bits(val))
	v.SetNull(i, false)
}

func (v *Vector) GetBool(i int) bool {
	return v.slot(i)[0] != 0
}

func (v *Vector) SetBool(i int, val bool) {
	if val {
		v.slot(i)[0] = 1
	} else {
		v.slot(i)[0] = 0
	}
	v.SetNull(i, false)
}

func (v *Vector) GetNodeOffset(i int) uint64 {
	return binary.LittleEndian.Uint64(v.slot(i))
}

func (v *Vector) SetNodeOffset(i int, offset uint64) {
	binary.LittleEndian.PutUint64(v.slot(i), offset)
	v.SetNull(i, false)
}

// GetString resolves the descriptor stored in slot i through Ovf.
func (v *Vector) GetString(i int) (string, error) {
	d := overflow.DecodeDescriptor(v.slot(i))
	b, err := v.Ovf.Resolve(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SetString encodes val into slot i via Ovf, inlining when it fits.
func (v *Vector) SetString(i int, val string) error {
	d, err := v.Ovf.Encode([]byte(val))
	if err != nil {
		return err
	}
	enc := d.Encode()
	copy(v.slot(i), enc[:])
	v.SetNull(i, false)
	return nil
}

// GetUint64List resolves a LIST/PATH slot as a flat []uint64, used for
// RecursiveJoin's materialized path column (alternating node/edge ids)
// and UNWIND over a list of integer-ish values — the same overflow
// descriptor STRING uses, just packed as little-endian uint64s instead
// of raw text.
func (v *Vector) GetUint64List(i int) ([]uint64, error) {
	d := overflow.DecodeDescriptor(v.slot(i))
	b, err := v.Ovf.Resolve(d)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(b)/8)
	for j := range out {
		out[j] = binary.LittleEndian.Uint64(b[j*8:])
	}
	return out, nil
}

// SetUint64List encodes vals into slot i via Ovf, inlining when it
// fits.
func (v *Vector) SetUint64List(i int, vals []uint64) error {
	b := make([]byte, len(vals)*8)
	for j, val := range vals {
		binary.LittleEndian.PutUint64(b[j*8:], val)
	}
	d, err := v.Ovf.Encode(b)
	if err != nil {
		return err
	}
	enc := d.Encode()
	copy(v.slot(i), enc[:])
	v.SetNull(i, false)
	return nil
}

// RawSlot exposes a slot's bytes directly — used by ScanNodeProperty
// to memcpy a column page's slot straight into a vector without
// per-type interpretation.
func (v *Vector) RawSlot(i int) []byte {
	return v.slot(i)
}

func (v *Vector) SetRawSlot(i int, raw []byte, isNull bool) {
	if !isNull {
		copy(v.slot(i), raw)
	}
	v.SetNull(i, isNull)
}
