package buffer

import (
	"fmt"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileID identifies a page file uniquely within a Database for the
// lifetime of the process.
type FileID uint32

// PagedFile is a single on-disk file addressed in fixed-size pages —
// one per (label, column-index) property column, one per
// (label, direction) adjacency list, one per overflow file, or one per
// hash-index shard (spec §6 on-disk layout).
type PagedFile struct {
	ID       FileID
	Path     string
	PageSize int

	mu      sync.Mutex
	f       *os.File
	mapped  mmap.MMap
	useMmap bool
}

// OpenPagedFile opens (creating if absent) a page file. useMmap memory
// maps the whole file for zero-copy reads; it is always true in
// Database in-memory mode and optional otherwise.
func OpenPagedFile(id FileID, path string, pageSize int, useMmap bool) (*PagedFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open paged file %s: %w", path, err)
	}

	pf := &PagedFile{ID: id, Path: path, PageSize: pageSize, f: f, useMmap: useMmap}
	if useMmap {
		if err := pf.remapLocked(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return pf, nil
}

// remapLocked (re)establishes the mmap region to cover the current
// file size. Called with mu held.
func (pf *PagedFile) remapLocked() error {
	if pf.mapped != nil {
		if err := pf.mapped.Unmap(); err != nil {
			return fmt.Errorf("unmap %s: %w", pf.Path, err)
		}
		pf.mapped = nil
	}

	info, err := pf.f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", pf.Path, err)
	}
	if info.Size() == 0 {
		// mmap-go rejects a zero-length mapping; nothing to map yet.
		return nil
	}

	m, err := mmap.Map(pf.f, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("mmap %s: %w", pf.Path, err)
	}
	pf.mapped = m
	return nil
}

// growLocked extends the file (and, if mapped, remaps it) so that
// pageID is addressable.
func (pf *PagedFile) growLocked(pageID uint64) error {
	need := int64(pageID+1) * int64(pf.PageSize)
	info, err := pf.f.Stat()
	if err != nil {
		return err
	}
	if info.Size() >= need {
		return nil
	}
	if err := pf.f.Truncate(need); err != nil {
		return fmt.Errorf("grow %s: %w", pf.Path, err)
	}
	if pf.useMmap {
		return pf.remapLocked()
	}
	return nil
}

// ReadPage reads one page into buf, which must be PageSize bytes.
func (pf *PagedFile) ReadPage(pageID uint64, buf []byte) error {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	off := int64(pageID) * int64(pf.PageSize)
	if pf.useMmap && pf.mapped != nil {
		end := off + int64(pf.PageSize)
		if end > int64(len(pf.mapped)) {
			// Page never written; treat as a zero page.
			for i := range buf {
				buf[i] = 0
			}
			return nil
		}
		copy(buf, pf.mapped[off:end])
		return nil
	}

	n, err := pf.f.ReadAt(buf, off)
	if err != nil && n == 0 {
		// Unwritten page: present as zeroed rather than failing, the
		// file simply hasn't grown that far yet.
		for i := range buf {
			buf[i] = 0
		}
		return nil
	}
	return err
}

// WritePage writes one page at pageID, growing the file if necessary.
func (pf *PagedFile) WritePage(pageID uint64, buf []byte) error {
	pf.mu.Lock()
	defer pf.mu.Unlock()

	if err := pf.growLocked(pageID); err != nil {
		return err
	}

	off := int64(pageID) * int64(pf.PageSize)
	if pf.useMmap && pf.mapped != nil {
		end := off + int64(pf.PageSize)
		if end <= int64(len(pf.mapped)) {
			copy(pf.mapped[off:end], buf)
			return nil
		}
	}
	_, err := pf.f.WriteAt(buf, off)
	return err
}

// Sync flushes mapped/written pages to stable storage.
func (pf *PagedFile) Sync() error {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	if pf.mapped != nil {
		if err := pf.mapped.Flush(); err != nil {
			return err
		}
	}
	return pf.f.Sync()
}

func (pf *PagedFile) Close() error {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	if pf.mapped != nil {
		_ = pf.mapped.Unmap()
	}
	return pf.f.Close()
}
