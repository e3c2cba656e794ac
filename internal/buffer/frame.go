package buffer

import "sync/atomic"

type frameKey struct {
	file FileID
	page uint64
}

// Frame is one pinned/unpinned buffer slot. Data is valid once loaded
// is closed; callers obtained a Frame from Pool.Pin always see a
// loaded frame (Pin blocks on loaded internally).
type Frame struct {
	key  frameKey
	file *PagedFile
	Data []byte

	pinCount atomic.Int32
	dirty    atomic.Bool

	loaded  chan struct{}
	loadErr error
}

// PinCount returns the current pin count; used only by tests and the
// eviction sweep, never by callers to decide whether to call Unpin —
// every successful Pin must be matched by exactly one Unpin.
func (f *Frame) PinCount() int32 { return f.pinCount.Load() }

func (f *Frame) IsDirty() bool { return f.dirty.Load() }
