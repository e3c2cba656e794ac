package adjacency

import (
	"encoding/binary"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/column"
)

// AdjColumn is the single-destination-per-source adjacency
// representation for 1:1/N:1 rel labels (spec §4.2): a source offset
// maps to at most one (dst offset, edge id) pair, so it is built
// directly on two fixed-width NODE columns rather than a chunked list
// format.
type AdjColumn struct {
	dst  *column.Column
	edge *column.Column
}

func OpenAdjColumn(mgr *buffer.Manager, dstPf, edgePf *buffer.PagedFile) *AdjColumn {
	nodeType := catalog.Primitive(catalog.NODE)
	return &AdjColumn{
		dst:  column.Open(mgr, dstPf, nodeType, nil),
		edge: column.Open(mgr, edgePf, nodeType, nil),
	}
}

// Get returns the (dst, edgeID) pair for srcOffset, or ok=false if the
// source has no outgoing edge under this rel label.
func (a *AdjColumn) Get(srcOffset uint64) (dst uint64, edgeID uint64, ok bool, err error) {
	dstRaw, isNull, err := a.dst.Read(srcOffset)
	if err != nil || isNull {
		return 0, 0, false, err
	}
	edgeRaw, _, err := a.edge.Read(srcOffset)
	if err != nil {
		return 0, 0, false, err
	}
	return binary.LittleEndian.Uint64(dstRaw), binary.LittleEndian.Uint64(edgeRaw), true, nil
}

// Set records srcOffset's single destination edge, overwriting any
// prior value (rel labels with N:1/1:1 cardinality never require more
// than one live edge per source).
func (a *AdjColumn) Set(srcOffset, dst, edgeID uint64) error {
	dstBuf := make([]byte, 8)
	edgeBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(dstBuf, dst)
	binary.LittleEndian.PutUint64(edgeBuf, edgeID)
	if err := a.dst.Write(srcOffset, dstBuf, false); err != nil {
		return err
	}
	return a.edge.Write(srcOffset, edgeBuf, false)
}
