/*
Package column implements the fixed- and variable-width columns named
in spec §4.2: a mapping from node offset to a fixed-width slot plus a
null bitmap, with variable-width payloads (STRING, LIST) delegated to
an internal/storage/overflow.File via a 16-byte descriptor.

Physical layout. Each page holds a run of consecutive node offsets:
first a null bitmap (one bit per row, rounded up to a byte), then the
fixed-width value slots back to back. rowsPerPage is computed once per
column so the bitmap and slots both fit inside one buffer-managed page
— wider types simply hold fewer rows per page, mirroring the catalog's
per-label column layout rather than a fixed row count.

Columns never resize or compact; write(offset, ...) grows the backing
file on demand the same way internal/buffer.PagedFile grows underneath
a pin, and a read of an offset whose page was never written returns
the zero value with is_null=true (a page the buffer manager hands back
zeroed, per internal/buffer.PagedFile.ReadPage).
*/
package column
