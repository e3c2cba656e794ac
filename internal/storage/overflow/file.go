package overflow

import (
	"encoding/binary"
	"sync"

	"github.com/cuemby/graphdb/pkg/dberr"

	"github.com/cuemby/graphdb/internal/buffer"
)

// lengthPrefixSize is the 4-byte length header written before every
// payload so Read can recover exactly how many bytes to return.
const lengthPrefixSize = 4

// File is a bump-allocated overflow store: values are appended
// sequentially and never moved or rewritten in place (spec §3
// invariant: "Overflow-file references are immutable for the lifetime
// of the referencing slot").
type File struct {
	pf  *buffer.PagedFile
	mgr *buffer.Manager

	mu        sync.Mutex
	curPage   uint64
	curOffset uint32
}

func New(mgr *buffer.Manager, pf *buffer.PagedFile) *File {
	return &File{pf: pf, mgr: mgr}
}

// Write appends data as one overflow value and returns a descriptor
// for it. Values small enough to inline never call this.
func (f *File) Write(data []byte) (Descriptor, error) {
	need := lengthPrefixSize + len(data)
	if need > f.pf.PageSize {
		return Descriptor{}, dberr.New(dberr.KindRuntimeError,
			"list overflow: value of %d bytes exceeds page capacity %d", len(data), f.pf.PageSize)
	}

	f.mu.Lock()
	if int(f.curOffset)+need > f.pf.PageSize {
		f.curPage++
		f.curOffset = 0
	}
	pageID := f.curPage
	off := f.curOffset
	f.curOffset += uint32(need)
	f.mu.Unlock()

	frame, err := f.mgr.PinPage(f.pf, pageID)
	if err != nil {
		return Descriptor{}, dberr.Wrap(dberr.KindIOError, err, "pin overflow page %d", pageID)
	}
	binary.LittleEndian.PutUint32(frame.Data[off:], uint32(len(data)))
	copy(frame.Data[off+lengthPrefixSize:], data)
	f.mgr.UnpinPage(f.pf, frame, true)

	return NewOverflowDescriptor(data, uint32(pageID), off), nil
}

// Read fetches the payload referenced by d. d must not be inline.
func (f *File) Read(d Descriptor) ([]byte, error) {
	frame, err := f.mgr.PinPage(f.pf, uint64(d.PageID))
	if err != nil {
		return nil, dberr.Wrap(dberr.KindIOError, err, "pin overflow page %d", d.PageID)
	}
	defer f.mgr.UnpinPage(f.pf, frame, false)

	length := binary.LittleEndian.Uint32(frame.Data[d.Offset:])
	out := make([]byte, length)
	copy(out, frame.Data[d.Offset+lengthPrefixSize:d.Offset+lengthPrefixSize+length])
	return out, nil
}

// Resolve reads the value behind d regardless of whether it is
// inline, sparing callers the branch.
func (f *File) Resolve(d Descriptor) ([]byte, error) {
	if d.IsInline() {
		return d.InlineBytes(), nil
	}
	return f.Read(d)
}

// Encode writes data as a descriptor, inlining when it fits.
func (f *File) Encode(data []byte) (Descriptor, error) {
	if len(data) <= InlineCapacity {
		return NewInlineDescriptor(data), nil
	}
	return f.Write(data)
}
