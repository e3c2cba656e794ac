package hashindex

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/storage/overflow"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// recordSize is {descriptor(16), nodeOffset(8), next recordID(8),
// key hash(8)}. The hash is stored alongside the key so shard.replay
// can re-derive each record's bucket without rehashing or even
// resolving the key's full bytes back from overflow.
const recordSize = 40

// noRecord is the sentinel "no record" id, used both for an empty
// bucket head and a chain terminator.
const noRecord = ^uint64(0)

// bucketCount is the in-shard directory width. It is independent of
// the 256-way shard split (which uses the hash's top 8 bits); buckets
// use the low bits of the same hash.
const bucketCount = 4096

type shard struct {
	mgr *buffer.Manager
	pf  *buffer.PagedFile
	ovf *overflow.File

	recordsPerPage int

	mu           sync.Mutex
	nextRecordID uint64
	directory    map[uint64]uint64 // bucket index -> head record id
}

func openShard(mgr *buffer.Manager, pf *buffer.PagedFile, ovf *overflow.File) (*shard, error) {
	s := &shard{
		mgr:            mgr,
		pf:             pf,
		ovf:            ovf,
		recordsPerPage: pf.PageSize / recordSize,
		directory:      make(map[uint64]uint64),
	}
	if err := s.replay(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *shard) recordLocate(id uint64) (pageID uint64, slotOff int) {
	pageID = id / uint64(s.recordsPerPage)
	slotOff = int(id%uint64(s.recordsPerPage)) * recordSize
	return
}

type record struct {
	descriptor overflow.Descriptor
	nodeOffset uint64
	next       uint64
	hash       uint64
}

func (s *shard) readRecord(id uint64) (record, error) {
	pageID, off := s.recordLocate(id)
	frame, err := s.mgr.PinPage(s.pf, pageID)
	if err != nil {
		return record{}, dberr.Wrap(dberr.KindIOError, err, "pin hash shard page %d", pageID)
	}
	defer s.mgr.UnpinPage(s.pf, frame, false)

	d := overflow.DecodeDescriptor(frame.Data[off : off+16])
	nodeOffset := binary.LittleEndian.Uint64(frame.Data[off+16 : off+24])
	next := binary.LittleEndian.Uint64(frame.Data[off+24 : off+32])
	hash := binary.LittleEndian.Uint64(frame.Data[off+32 : off+40])
	return record{descriptor: d, nodeOffset: nodeOffset, next: next, hash: hash}, nil
}

func (s *shard) writeRecord(id uint64, r record) error {
	pageID, off := s.recordLocate(id)
	frame, err := s.mgr.PinPage(s.pf, pageID)
	if err != nil {
		return dberr.Wrap(dberr.KindIOError, err, "pin hash shard page %d", pageID)
	}
	defer s.mgr.UnpinPage(s.pf, frame, true)

	enc := r.descriptor.Encode()
	copy(frame.Data[off:off+16], enc[:])
	binary.LittleEndian.PutUint64(frame.Data[off+16:off+24], r.nodeOffset)
	binary.LittleEndian.PutUint64(frame.Data[off+24:off+32], r.next)
	binary.LittleEndian.PutUint64(frame.Data[off+32:off+40], r.hash)
	return nil
}

// replay rebuilds the in-memory bucket directory by walking every
// record written so far, in insertion order, re-deriving its bucket
// and overwriting that bucket's head — the record's own "next" field
// already points at whatever was the head when it was inserted, so no
// chain repair is needed.
func (s *shard) replay() error {
	// The shard log has no separate record-count header; scan forward
	// until a slot that was never written (all-zero) is found. Each
	// live record carries its own insert-time hash, so the bucket it
	// belongs to is recovered directly rather than rehashed.
	var id uint64
	for {
		r, err := s.readRecord(id)
		if err != nil {
			return err
		}
		if r.descriptor.Length == 0 && r.nodeOffset == 0 && r.next == 0 && r.hash == 0 {
			break
		}
		s.directory[bucketOf(r.hash)] = id
		id++
	}
	s.nextRecordID = id
	return nil
}

func bucketOf(hash uint64) uint64 {
	return hash % bucketCount
}

// insert appends one key -> nodeOffset record, threading it onto the
// bucket's existing chain.
func (s *shard) insert(hash uint64, keyBytes []byte, nodeOffset uint64) error {
	d, err := s.ovf.Encode(keyBytes)
	if err != nil {
		return err
	}
	bucket := bucketOf(hash)

	s.mu.Lock()
	prevHead, ok := s.directory[bucket]
	if !ok {
		prevHead = noRecord
	}
	id := s.nextRecordID
	s.nextRecordID++
	s.directory[bucket] = id
	s.mu.Unlock()

	return s.writeRecord(id, record{descriptor: d, nodeOffset: nodeOffset, next: prevHead, hash: hash})
}

// lookup walks the bucket chain for hash comparing keyBytes, using
// the descriptor's length+prefix to reject non-matches before reading
// the overflow file for a full comparison.
func (s *shard) lookup(hash uint64, keyBytes []byte) (uint64, bool, error) {
	s.mu.Lock()
	id, ok := s.directory[bucketOf(hash)]
	s.mu.Unlock()
	if !ok {
		return 0, false, nil
	}

	candidate := overflow.NewInlineDescriptor(keyBytes)
	for id != noRecord {
		r, err := s.readRecord(id)
		if err != nil {
			return 0, false, err
		}
		if overflow.PrefixMatches(candidate, r.descriptor) {
			full, err := s.ovf.Resolve(r.descriptor)
			if err != nil {
				return 0, false, err
			}
			if bytes.Equal(full, keyBytes) {
				return r.nodeOffset, true, nil
			}
		}
		id = r.next
	}
	return 0, false, nil
}
