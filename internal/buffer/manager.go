package buffer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cuemby/graphdb/pkg/config"
)

// PageClass selects which of the two pools backs a given file.
type PageClass uint8

const (
	DefaultPageClass PageClass = iota
	LargePageClass
)

// Manager owns the default-page and large-page pools and hands out
// FileIDs to every page file opened against it (spec §4.1, §6).
type Manager struct {
	defaultPool *Pool
	largePool   *Pool

	nextFileID atomic.Uint32

	mu    sync.RWMutex
	files map[FileID]*PagedFile
}

// NewManager builds the two pools sized per cfg, in frame counts
// derived from pool byte size / page size.
func NewManager(cfg config.SystemConfig) *Manager {
	defaultFrames := int(cfg.DefaultPageBufferPoolSize / config.DefaultPageSizeBytes)
	largeFrames := int(cfg.LargePageBufferPoolSize / config.LargePageSizeBytes)
	if defaultFrames < 1 {
		defaultFrames = 1
	}
	if largeFrames < 1 {
		largeFrames = 1
	}
	return &Manager{
		defaultPool: NewPool("default", config.DefaultPageSizeBytes, defaultFrames),
		largePool:   NewPool("large", config.LargePageSizeBytes, largeFrames),
		files:       make(map[FileID]*PagedFile),
	}
}

// OpenFile opens path as a page file of the given class, backed by
// mmap when useMmap is true.
func (m *Manager) OpenFile(path string, class PageClass, useMmap bool) (*PagedFile, error) {
	id := FileID(m.nextFileID.Add(1))
	pageSize := config.DefaultPageSizeBytes
	if class == LargePageClass {
		pageSize = config.LargePageSizeBytes
	}

	pf, err := OpenPagedFile(id, path, pageSize, useMmap)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.files[id] = pf
	m.mu.Unlock()
	return pf, nil
}

func (m *Manager) poolFor(class PageClass) *Pool {
	if class == LargePageClass {
		return m.largePool
	}
	return m.defaultPool
}

func classOf(file *PagedFile) PageClass {
	if file.PageSize == config.LargePageSizeBytes {
		return LargePageClass
	}
	return DefaultPageClass
}

// PinPage pins page pageID of file, dispatching to the pool matching
// the file's page size.
func (m *Manager) PinPage(file *PagedFile, pageID uint64) (*Frame, error) {
	return m.poolFor(classOf(file)).Pin(file, pageID)
}

// UnpinPage releases a frame back to whichever pool owns it.
func (m *Manager) UnpinPage(file *PagedFile, f *Frame, dirty bool) {
	m.poolFor(classOf(file)).Unpin(f, dirty)
}

// ResizeBufferManager implements the connection-API-level
// resize_buffer_manager operation (spec §6).
func (m *Manager) ResizeBufferManager(defaultPoolBytes, largePoolBytes uint64) error {
	if defaultPoolBytes > 0 {
		frames := int(defaultPoolBytes / config.DefaultPageSizeBytes)
		if frames < 1 {
			return fmt.Errorf("default buffer pool size too small")
		}
		if err := m.defaultPool.Resize(frames); err != nil {
			return err
		}
	}
	if largePoolBytes > 0 {
		frames := int(largePoolBytes / config.LargePageSizeBytes)
		if frames < 1 {
			return fmt.Errorf("large buffer pool size too small")
		}
		if err := m.largePool.Resize(frames); err != nil {
			return err
		}
	}
	return nil
}

// Pools returns both pools, for periodic metrics sampling.
func (m *Manager) Pools() []*Pool {
	return []*Pool{m.defaultPool, m.largePool}
}

// FlushAll flushes both pools — used before a clean shutdown.
func (m *Manager) FlushAll() error {
	if err := m.defaultPool.FlushAll(); err != nil {
		return err
	}
	return m.largePool.FlushAll()
}

// Close flushes and closes every page file the manager opened.
func (m *Manager) Close() error {
	if err := m.FlushAll(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
