/*
Package adjacency implements the two adjacency representations named
in spec §4.2: AdjColumn for 1:1/N:1 rel labels (each source has at
most one destination) and AdjLists for 1:N/N:N rel labels (each source
has a chunked list of destinations).

AdjColumn is built directly on two internal/storage/column.Columns —
dstNode and edgeID, both fixed-width NODE-typed columns keyed by the
same source offset — since a single-destination mapping is exactly
what a Column already provides.

AdjLists instead owns its own chunked page format: a per-source header
{count, headPage, headFill} keyed by source offset (stored in raw
header pages of its own, not a Column), and chunk pages that begin
with an 8-byte next-chunk-page pointer, written when the chunk is
allocated, followed by a sequence of (dstOffset, edgeID) pairs. open_list/scan walk this chain via a Cursor that carries
the shared list-sync-state spec §4.2 requires so co-scanned property
lists stay in lockstep with the adjacency they describe.
*/
package adjacency
