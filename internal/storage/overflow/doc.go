/*
Package overflow implements the variable-width payload side-store
named in spec §3/§4.2: a page-organized file holding string and
serialized-list bytes referenced by 16-byte descriptors embedded in a
column slot or hash-index record.

A Descriptor is {length, 4-byte prefix, then either 8 inline bytes or
an 8-byte (pageID, offset) pointer}; a payload of length<=12 is held
inline, split over the prefix and the 8 inline bytes. The
prefix is always populated so callers can reject an equality
comparison without touching the overflow file at all (spec §4.3:
"String equality uses a fast reject").

Each overflow value is written once to a fresh page region by a bump
allocator; spec's "Overflow-file references are immutable for the
lifetime of the referencing slot" means updates always allocate new
space rather than overwrite in place. A single value that would not
fit in one page is rejected with dberr.KindRuntimeError ("list
overflow") per S5 rather than spanning pages or truncating.
*/
package overflow
