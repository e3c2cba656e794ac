package hashindex

import (
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/overflow"
)

// ShardCount is fixed at 256 (top 8 bits of the key hash), per spec
// §4.3 and its invariant that shard membership is stable.
const ShardCount = 256

// Index is a primary-key hash index for one node label: 256
// independently append-only shards sharing one overflow file for
// string key payloads.
type Index struct {
	keyType catalog.LogicalTypeID
	shards  [ShardCount]*shard
}

// Open opens (or creates, if absent) the on-disk shard files under
// dir and replays each one to rebuild its in-memory bucket directory.
func Open(mgr *buffer.Manager, dir string, keyType catalog.LogicalTypeID) (*Index, error) {
	ovfPf, err := mgr.OpenFile(filepath.Join(dir, "keys.ovf"), buffer.DefaultPageClass, false)
	if err != nil {
		return nil, err
	}
	ovf := overflow.New(mgr, ovfPf)

	idx := &Index{keyType: keyType}
	for i := 0; i < ShardCount; i++ {
		pf, err := mgr.OpenFile(filepath.Join(dir, fmt.Sprintf("shard_%03d.log", i)), buffer.DefaultPageClass, false)
		if err != nil {
			return nil, err
		}
		s, err := openShard(mgr, pf, ovf)
		if err != nil {
			return nil, err
		}
		idx.shards[i] = s
	}
	return idx, nil
}

func shardOf(hash uint64) int {
	return int(hash >> 56)
}

// Insert records key -> nodeOffset. Writes within one shard are
// append-only and never overwrite a prior record for a re-inserted
// key; callers are responsible for not inserting a primary key twice
// (spec §4.3 makes no provision for update-in-place).
func (idx *Index) Insert(key any, nodeOffset uint64) error {
	keyBytes, err := EncodeKey(idx.keyType, key)
	if err != nil {
		return err
	}
	hash := xxhash.Sum64(keyBytes)
	return idx.shards[shardOf(hash)].insert(hash, keyBytes, nodeOffset)
}

// Lookup returns the node offset for key, or found=false if absent.
func (idx *Index) Lookup(key any) (nodeOffset uint64, found bool, err error) {
	keyBytes, err := EncodeKey(idx.keyType, key)
	if err != nil {
		return 0, false, err
	}
	hash := xxhash.Sum64(keyBytes)
	return idx.shards[shardOf(hash)].lookup(hash, keyBytes)
}
