package adjacency

import (
	"encoding/binary"
	"sync"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// noPage is the sentinel page id meaning "no chunk" in both header
// and chunk next-pointers.
const noPage = ^uint64(0)

const (
	headerSlotWidth = 24 // count(8) + headPage(8) + headFill(4) + pad(4)
	entrySize       = 16 // dstOffset(8) + edgeID(8)
	chunkHeaderSize = 8  // nextPage(8)
)

// AdjLists is the chunked-list adjacency representation for 1:N/N:N
// rel labels (spec §4.2). Each source offset owns a header {count,
// headPage, headFill} and a singly-linked chain of chunk pages; only
// the head chunk (the most recently allocated) may be partially
// filled; every older chunk was a head once and was always full at
// the moment it was displaced, so it never needs its own fill count.
type AdjLists struct {
	mgr *buffer.Manager

	headerPf *buffer.PagedFile
	chunkPf  *buffer.PagedFile

	headerRowsPerPage int
	chunkCapacity     int

	mu            sync.Mutex
	nextChunkPage uint64
}

func OpenAdjLists(mgr *buffer.Manager, headerPf, chunkPf *buffer.PagedFile) *AdjLists {
	return &AdjLists{
		mgr:               mgr,
		headerPf:          headerPf,
		chunkPf:           chunkPf,
		headerRowsPerPage: headerPf.PageSize / headerSlotWidth,
		chunkCapacity:     (chunkPf.PageSize - chunkHeaderSize) / entrySize,
	}
}

type header struct {
	count    uint64
	headPage uint64
	headFill uint32
}

func (a *AdjLists) headerLocate(srcOffset uint64) (pageID uint64, slotOff int) {
	pageID = srcOffset / uint64(a.headerRowsPerPage)
	row := int(srcOffset % uint64(a.headerRowsPerPage))
	slotOff = row * headerSlotWidth
	return
}

func (a *AdjLists) readHeader(srcOffset uint64) (header, error) {
	pageID, slotOff := a.headerLocate(srcOffset)
	frame, err := a.mgr.PinPage(a.headerPf, pageID)
	if err != nil {
		return header{}, dberr.Wrap(dberr.KindIOError, err, "pin adjacency header page %d", pageID)
	}
	defer a.mgr.UnpinPage(a.headerPf, frame, false)

	h := header{
		count:    binary.LittleEndian.Uint64(frame.Data[slotOff : slotOff+8]),
		headPage: binary.LittleEndian.Uint64(frame.Data[slotOff+8 : slotOff+16]),
		headFill: binary.LittleEndian.Uint32(frame.Data[slotOff+16 : slotOff+20]),
	}
	if h.count == 0 && h.headPage == 0 {
		h.headPage = noPage
	}
	return h, nil
}

func (a *AdjLists) writeHeader(srcOffset uint64, h header) error {
	pageID, slotOff := a.headerLocate(srcOffset)
	frame, err := a.mgr.PinPage(a.headerPf, pageID)
	if err != nil {
		return dberr.Wrap(dberr.KindIOError, err, "pin adjacency header page %d", pageID)
	}
	defer a.mgr.UnpinPage(a.headerPf, frame, true)

	binary.LittleEndian.PutUint64(frame.Data[slotOff:slotOff+8], h.count)
	binary.LittleEndian.PutUint64(frame.Data[slotOff+8:slotOff+16], h.headPage)
	binary.LittleEndian.PutUint32(frame.Data[slotOff+16:slotOff+20], h.headFill)
	return nil
}

func (a *AdjLists) chunkNext(pageID uint64) (uint64, error) {
	frame, err := a.mgr.PinPage(a.chunkPf, pageID)
	if err != nil {
		return 0, dberr.Wrap(dberr.KindIOError, err, "pin adjacency chunk page %d", pageID)
	}
	defer a.mgr.UnpinPage(a.chunkPf, frame, false)
	return binary.LittleEndian.Uint64(frame.Data[0:8]), nil
}

func (a *AdjLists) chunkEntry(pageID uint64, slot int) (dst, edge uint64, err error) {
	frame, err := a.mgr.PinPage(a.chunkPf, pageID)
	if err != nil {
		return 0, 0, dberr.Wrap(dberr.KindIOError, err, "pin adjacency chunk page %d", pageID)
	}
	defer a.mgr.UnpinPage(a.chunkPf, frame, false)
	off := chunkHeaderSize + slot*entrySize
	return binary.LittleEndian.Uint64(frame.Data[off : off+8]),
		binary.LittleEndian.Uint64(frame.Data[off+8 : off+16]), nil
}

// Append records one more (dst, edgeID) pair under srcOffset,
// allocating a fresh chunk page as the new head whenever the current
// head is full (or the list is empty).
func (a *AdjLists) Append(srcOffset, dst, edgeID uint64) error {
	h, err := a.readHeader(srcOffset)
	if err != nil {
		return err
	}

	if h.headPage == noPage || int(h.headFill) >= a.chunkCapacity {
		a.mu.Lock()
		newPage := a.nextChunkPage
		a.nextChunkPage++
		a.mu.Unlock()

		frame, err := a.mgr.PinPage(a.chunkPf, newPage)
		if err != nil {
			return dberr.Wrap(dberr.KindIOError, err, "pin adjacency chunk page %d", newPage)
		}
		binary.LittleEndian.PutUint64(frame.Data[0:8], h.headPage)
		a.mgr.UnpinPage(a.chunkPf, frame, true)

		h.headPage = newPage
		h.headFill = 0
	}

	frame, err := a.mgr.PinPage(a.chunkPf, h.headPage)
	if err != nil {
		return dberr.Wrap(dberr.KindIOError, err, "pin adjacency chunk page %d", h.headPage)
	}
	off := chunkHeaderSize + int(h.headFill)*entrySize
	binary.LittleEndian.PutUint64(frame.Data[off:off+8], dst)
	binary.LittleEndian.PutUint64(frame.Data[off+8:off+16], edgeID)
	a.mgr.UnpinPage(a.chunkPf, frame, true)

	h.headFill++
	h.count++
	return a.writeHeader(srcOffset, h)
}

// Count returns the number of edges recorded for srcOffset.
func (a *AdjLists) Count(srcOffset uint64) (uint64, error) {
	h, err := a.readHeader(srcOffset)
	if err != nil {
		return 0, err
	}
	return h.count, nil
}

// Cursor walks one source's chunk chain, carrying the shared
// list-sync-state (spec §4.2) so a caller co-scanning edge-property
// lists can advance both in lockstep via the returned positions.
type Cursor struct {
	lists *AdjLists
	page  uint64
	fill  int
	idx   int
	done  bool
}

// OpenList returns a cursor positioned at the start of srcOffset's
// adjacency list (chunks are visited newest first; within a chunk,
// entries are in insertion order).
func (a *AdjLists) OpenList(srcOffset uint64) (*Cursor, error) {
	h, err := a.readHeader(srcOffset)
	if err != nil {
		return nil, err
	}
	if h.headPage == noPage {
		return &Cursor{lists: a, done: true}, nil
	}
	return &Cursor{lists: a, page: h.headPage, fill: int(h.headFill), idx: 0}, nil
}

// Scan fills outDst/outEdge (equal length, the morsel batch capacity)
// and returns how many entries it produced; 0 means the list is
// exhausted.
func (a *AdjLists) Scan(cur *Cursor, outDst, outEdge []uint64) (int, error) {
	if cur.done {
		return 0, nil
	}
	max := len(outDst)
	n := 0
	for n < max {
		if cur.idx >= cur.fill {
			next, err := a.chunkNext(cur.page)
			if err != nil {
				return n, err
			}
			if next == noPage {
				cur.done = true
				break
			}
			cur.page = next
			cur.fill = a.chunkCapacity
			cur.idx = 0
		}
		dst, edge, err := a.chunkEntry(cur.page, cur.idx)
		if err != nil {
			return n, err
		}
		outDst[n] = dst
		outEdge[n] = edge
		cur.idx++
		n++
	}
	return n, nil
}
