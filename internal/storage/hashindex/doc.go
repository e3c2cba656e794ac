/*
Package hashindex implements the primary-key → node-offset lookup
structure named in spec §4.3: 256 shards selected by the top 8 bits of
the key hash, each shard an append-only chained hash file.

Rather than a separately persisted bucket directory, each shard keeps
its directory (bucket index → head record id) purely in memory and
rebuilds it by replaying the shard's record log from the start at
Open — every record already stores the id of the bucket's previous
head at the moment it was inserted, so replay only needs to re-derive
bucket(hash(key)) per record and overwrite the directory entry; the
chain itself needs no repair. This trades a rebuild pass at open time
for never having to keep an on-disk directory structure consistent
with concurrent shard writes, the same bitcask-style tradeoff a
log-structured key-value store makes.

Hashing uses xxhash/v2 (github.com/cespare/xxhash/v2), matching its
use for HASH_NODE_ID in internal/vector. String keys that exceed the
overflow package's inline capacity are written once to a shared
overflow.File and referenced by the same 16-byte descriptor the
columnar store uses, reusing its length+prefix fast-reject for
equality before ever reading the full payload back (spec §4.3: "String
equality uses a fast reject").
*/
package hashindex
