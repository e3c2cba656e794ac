package column

import (
	"sync"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/overflow"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// Column is a node-offset-indexed, fixed-width store with a parallel
// null bitmap in which a set bit marks a non-null row, so a zeroed
// page reads as all null (spec §4.2). Variable-width logical types store a
// 16-byte overflow.Descriptor as their slot value; resolving the
// backing bytes is a separate call so callers that only need
// presence/equality checks (the descriptor's length+prefix) never
// touch the overflow file.
type Column struct {
	Type catalog.LogicalType

	mgr  *buffer.Manager
	pf   *buffer.PagedFile
	ovf  *overflow.File // non-nil iff Type.ID.IsVariableWidth()
	mu   sync.RWMutex

	slotWidth    int
	rowsPerPage  int
	bitmapBytes  int
}

// Open attaches a Column to an already-opened page file. The page
// class (default or large) is the one the file was opened with via
// buffer.Manager.OpenFile; Open takes no class of its own.
func Open(mgr *buffer.Manager, pf *buffer.PagedFile, lt catalog.LogicalType, ovf *overflow.File) *Column {
	slotWidth := lt.ID.FixedWidth()
	rows, bitmapBytes := layout(pf.PageSize, slotWidth)
	return &Column{
		Type:        lt,
		mgr:         mgr,
		pf:          pf,
		ovf:         ovf,
		slotWidth:   slotWidth,
		rowsPerPage: rows,
		bitmapBytes: bitmapBytes,
	}
}

// layout computes how many rows of slotWidth bytes fit in one page
// alongside their null bitmap (one bit per row, byte-rounded).
func layout(pageSize, slotWidth int) (rows, bitmapBytes int) {
	// rows*slotWidth + ceil(rows/8) <= pageSize
	// approximate then walk down until it fits, which converges in O(1)
	// iterations since bitmapBytes grows far slower than slotWidth*rows.
	rows = (pageSize * 8) / (8*slotWidth + 1)
	for rows > 0 {
		bitmapBytes = (rows + 7) / 8
		if rows*slotWidth+bitmapBytes <= pageSize {
			break
		}
		rows--
	}
	return rows, bitmapBytes
}

// Ovf exposes the column's overflow file so callers building a vector
// to hold this column's values can resolve its variable-width slots
// without duplicating the column's own overflow wiring.
func (c *Column) Ovf() *overflow.File { return c.ovf }

func (c *Column) locate(offset uint64) (pageID uint64, rowInPage int) {
	pageID = offset / uint64(c.rowsPerPage)
	rowInPage = int(offset % uint64(c.rowsPerPage))
	return
}

func (c *Column) slotOffset(rowInPage int) int {
	return c.bitmapBytes + rowInPage*c.slotWidth
}

// Read returns the raw slot bytes for offset and whether it is null.
// A row on a page never written is reported null with a zeroed slot.
func (c *Column) Read(offset uint64) (raw []byte, isNull bool, err error) {
	pageID, row := c.locate(offset)

	c.mu.RLock()
	defer c.mu.RUnlock()

	frame, err := c.mgr.PinPage(c.pf, pageID)
	if err != nil {
		return nil, false, dberr.Wrap(dberr.KindIOError, err, "pin column page %d", pageID)
	}
	defer c.mgr.UnpinPage(c.pf, frame, false)

	isNull = !bitGet(frame.Data[:c.bitmapBytes], row)
	start := c.slotOffset(row)
	raw = make([]byte, c.slotWidth)
	copy(raw, frame.Data[start:start+c.slotWidth])
	return raw, isNull, nil
}

// ReadRange reads a batch of offsets in one call, preserving order.
// Offsets need not be contiguous or sorted; pages are pinned once per
// distinct offset, not coalesced, since the morsel-sized batches this
// feeds are already chosen to minimize cross-page thrash upstream.
func (c *Column) ReadRange(offsets []uint64) (raw [][]byte, nulls []bool, err error) {
	raw = make([][]byte, len(offsets))
	nulls = make([]bool, len(offsets))
	for i, off := range offsets {
		r, n, err := c.Read(off)
		if err != nil {
			return nil, nil, err
		}
		raw[i] = r
		nulls[i] = n
	}
	return raw, nulls, nil
}

// Write stores raw (must be exactly slotWidth bytes, ignored if
// isNull) at offset, growing the backing file as needed.
func (c *Column) Write(offset uint64, raw []byte, isNull bool) error {
	if !isNull && len(raw) != c.slotWidth {
		return dberr.New(dberr.KindRuntimeError, "column write: got %d bytes, want %d", len(raw), c.slotWidth)
	}
	pageID, row := c.locate(offset)

	c.mu.Lock()
	defer c.mu.Unlock()

	frame, err := c.mgr.PinPage(c.pf, pageID)
	if err != nil {
		return dberr.Wrap(dberr.KindIOError, err, "pin column page %d", pageID)
	}
	defer c.mgr.UnpinPage(c.pf, frame, true)

	bitSet(frame.Data[:c.bitmapBytes], row, !isNull)
	if !isNull {
		start := c.slotOffset(row)
		copy(frame.Data[start:start+c.slotWidth], raw)
	}
	return nil
}

// EncodeVarWidth writes data to the overflow file (inlining when
// small enough) and returns the 16-byte descriptor to store as this
// column's slot value. Only valid for variable-width columns.
func (c *Column) EncodeVarWidth(data []byte) ([]byte, error) {
	if c.ovf == nil {
		return nil, dberr.New(dberr.KindRuntimeError, "column: EncodeVarWidth on fixed-width column %s", c.Type.ID)
	}
	d, err := c.ovf.Encode(data)
	if err != nil {
		return nil, err
	}
	b := d.Encode()
	return b[:], nil
}

// ResolveVarWidth decodes a 16-byte descriptor slot value back into
// its payload bytes, reading the overflow file only if the value is
// not inline.
func (c *Column) ResolveVarWidth(raw []byte) ([]byte, error) {
	if c.ovf == nil {
		return nil, dberr.New(dberr.KindRuntimeError, "column: ResolveVarWidth on fixed-width column %s", c.Type.ID)
	}
	d := overflow.DecodeDescriptor(raw)
	return c.ovf.Resolve(d)
}

func bitGet(bitmap []byte, i int) bool {
	return bitmap[i/8]&(1<<(uint(i)%8)) != 0
}

func bitSet(bitmap []byte, i int, v bool) {
	mask := byte(1 << (uint(i) % 8))
	if v {
		bitmap[i/8] |= mask
	} else {
		bitmap[i/8] &^= mask
	}
}
