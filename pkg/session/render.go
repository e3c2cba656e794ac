package session

import (
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/exec"
)

// renderRows flattens a ResultCollector's column-major chunks into
// row-major Go values per types, resolving STRING columns through
// their vector's overflow file the way ScanNodeProperty already
// wired it up at scan time.
func renderRows(collector *exec.ResultCollector, types []catalog.LogicalType) [][]any {
	var rows [][]any
	for chunkIdx, vectors := range collector.Rows {
		sel := collector.Sels[chunkIdx]
		for i := 0; i < sel.Len(); i++ {
			pos := sel.At(i)
			row := make([]any, len(vectors))
			for col, v := range vectors {
				if v.IsNull(pos) {
					row[col] = nil
					continue
				}
				row[col] = renderValue(v, pos, types[col])
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func renderValue(v interface {
	GetInt64(int) int64
	GetFloat64(int) float64
	GetBool(int) bool
	GetNodeOffset(int) uint64
	GetString(int) (string, error)
	GetUint64List(int) ([]uint64, error)
}, pos int, t catalog.LogicalType) any {
	switch t.ID {
	case catalog.INT64, catalog.TIMESTAMP, catalog.DATE:
		return v.GetInt64(pos)
	case catalog.DOUBLE:
		return v.GetFloat64(pos)
	case catalog.BOOL:
		return v.GetBool(pos)
	case catalog.NODE, catalog.REL:
		return v.GetNodeOffset(pos)
	case catalog.STRING:
		s, err := v.GetString(pos)
		if err != nil {
			return nil
		}
		return s
	case catalog.LIST, catalog.PATH:
		l, err := v.GetUint64List(pos)
		if err != nil {
			return nil
		}
		return l
	default:
		return nil
	}
}
