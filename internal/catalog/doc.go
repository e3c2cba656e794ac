/*
Package catalog holds the schema entities named in spec §3: node
labels, rel labels, their structured property definitions, and logical
types. Catalog records are small and read-mostly compared to the
columnar hot store, so — unlike the buffer-managed page files in
internal/storage — they are persisted in an embedded b+tree
(go.etcd.io/bbolt), the same way the teacher persists cluster metadata
in pkg/storage/boltdb.go. DDL only ever runs with no query holding a
catalog reference (spec §5), so the catalog itself needs no
fine-grained locking beyond bbolt's own single-writer transactions.
*/
package catalog
