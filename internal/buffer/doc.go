/*
Package buffer implements the page cache described in spec §4.1: a
pin/unpin contract over two independently-sized, independently
resizable pools (default-page and large-page), with an eviction policy
that never evicts a pinned frame and never blocks a pin that can be
satisfied by growing into spare capacity.

Page files are backed by github.com/edsrzf/mmap-go when a pool runs in
mmap mode (always true for DatabaseConfig.InMemoryMode, optionally true
otherwise), giving pinned frames a zero-copy view of the underlying
file instead of a read(2)/write(2) round trip per page — the same
trade the teacher's BoltStore makes implicitly through bbolt's own
mmap-backed B+tree, made explicit here because this package owns page
I/O directly instead of delegating to a generic KV engine.

Eviction candidates are generated from an approximate-LRU order
(github.com/hashicorp/golang-lru/v2/simplelru) and accepted only if the
candidate frame's pin count is zero; a frame some other worker is
currently holding is skipped and the next-oldest candidate is tried,
which is the spec's "clock or LRU" contract satisfied by an
LRU-directed sweep rather than a literal clock hand.
*/
package buffer
