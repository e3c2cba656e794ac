package buffer

import (
	"sync"

	"github.com/cuemby/graphdb/pkg/dberr"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/metrics"
	lru "github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/rs/zerolog"
)

// Pool is one buffer pool: either the default-page pool or the
// large-page pool (spec §4.1: "Two pools ... with independent
// capacities; both resizable at runtime").
type Pool struct {
	name     string
	pageSize int
	logger   zerolog.Logger

	mu       sync.Mutex
	capacity int
	frames   map[frameKey]*Frame
	order    *lru.LRU[frameKey, struct{}]
}

// NewPool creates a pool with room for capacity frames of pageSize
// bytes each.
func NewPool(name string, pageSize, capacity int) *Pool {
	order, _ := lru.NewLRU[frameKey, struct{}](capacity, nil)
	return &Pool{
		name:     name,
		pageSize: pageSize,
		logger:   log.WithComponent("buffer"),
		capacity: capacity,
		frames:   make(map[frameKey]*Frame, capacity),
		order:    order,
	}
}

// Pin returns the frame holding file's page pageID, reading it from
// disk on a cache miss. The returned frame's pin count has been
// incremented; the caller must call Unpin exactly once.
func (p *Pool) Pin(file *PagedFile, pageID uint64) (*Frame, error) {
	key := frameKey{file: file.ID, page: pageID}

	p.mu.Lock()
	if f, ok := p.frames[key]; ok {
		f.pinCount.Add(1)
		p.order.Get(key) // touch: mark most-recently-used
		p.mu.Unlock()
		metrics.BufferPoolHits.WithLabelValues(p.name).Inc()
		<-f.loaded
		if f.loadErr != nil {
			f.pinCount.Add(-1)
			return nil, f.loadErr
		}
		return f, nil
	}
	metrics.BufferPoolMisses.WithLabelValues(p.name).Inc()

	if len(p.frames) >= p.capacity {
		if !p.evictLocked() {
			p.mu.Unlock()
			return nil, dberr.ErrBufferExhausted
		}
	}

	f := &Frame{
		key:    key,
		file:   file,
		Data:   make([]byte, p.pageSize),
		loaded: make(chan struct{}),
	}
	f.pinCount.Store(1)
	p.frames[key] = f
	p.order.Add(key, struct{}{})
	p.mu.Unlock()

	// Fill outside the pool lock so a slow I/O doesn't stall unrelated
	// pins; concurrent Pins of the same key block on f.loaded above.
	if err := file.ReadPage(pageID, f.Data); err != nil {
		f.loadErr = dberr.Wrap(dberr.KindIOError, err, "read page %d of %s", pageID, file.Path)
	}
	close(f.loaded)

	if f.loadErr != nil {
		p.mu.Lock()
		delete(p.frames, key)
		p.order.Remove(key)
		p.mu.Unlock()
		f.pinCount.Add(-1)
		return nil, f.loadErr
	}
	return f, nil
}

// Unpin releases one pin on f. If dirty, the frame is marked for
// write-back on eviction or explicit Flush.
func (p *Pool) Unpin(f *Frame, dirty bool) {
	if dirty {
		f.dirty.Store(true)
	}
	f.pinCount.Add(-1)
}

// evictLocked tries to free one frame slot, flushing it first if
// dirty. Called with p.mu held. Returns false if every frame is
// currently pinned (BufferExhausted).
func (p *Pool) evictLocked() bool {
	attempts := p.order.Len()
	for i := 0; i < attempts; i++ {
		key, _, ok := p.order.GetOldest()
		if !ok {
			return false
		}
		f := p.frames[key]
		if f == nil {
			p.order.Remove(key)
			continue
		}
		if f.PinCount() != 0 {
			p.order.Get(key) // touch: demote past the next candidate
			continue
		}
		if f.IsDirty() {
			if err := f.file.WritePage(key.page, f.Data); err != nil {
				p.logger.Error().Err(err).Uint64("page", key.page).Msg("flush on eviction failed")
				return false
			}
		}
		delete(p.frames, key)
		p.order.Remove(key)
		return true
	}
	return false
}

// Resize changes the pool's frame capacity at runtime. Every unpinned
// dirty frame is written back first; shrinking then evicts unpinned
// frames until the new capacity is met or no more can be freed (in
// which case the pool stays larger than requested rather than
// discarding a pinned frame — spec §8 invariant 7).
func (p *Pool) Resize(newCapacity int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, f := range p.frames {
		if f.PinCount() == 0 && f.IsDirty() {
			if err := f.file.WritePage(key.page, f.Data); err != nil {
				return err
			}
			f.dirty.Store(false)
		}
	}

	p.capacity = newCapacity
	for len(p.frames) > p.capacity {
		if !p.evictLocked() {
			return nil
		}
	}
	// Grow the LRU's own bookkeeping capacity to match.
	order, _ := lru.NewLRU[frameKey, struct{}](max(newCapacity, 1), nil)
	for k := range p.frames {
		order.Add(k, struct{}{})
	}
	p.order = order
	return nil
}

// FlushAll writes back every dirty frame without evicting it — used
// before a clean shutdown or WAL checkpoint.
func (p *Pool) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, f := range p.frames {
		if f.IsDirty() {
			if err := f.file.WritePage(key.page, f.Data); err != nil {
				return err
			}
			f.dirty.Store(false)
		}
	}
	return nil
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

// Name returns the pool's label ("default" or "large"), used by the
// periodic metrics collector to tag the frames-in-use gauge.
func (p *Pool) Name() string {
	return p.name
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
