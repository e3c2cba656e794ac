package hashindex

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cuemby/graphdb/internal/catalog"
)

// EncodeKey turns a typed primary-key value into the byte form hashed
// and compared by the shard log, dispatching on the label's key
// column logical type (spec §4.3: "per-type insert, hash, and equals
// function triples selected at open-time").
func EncodeKey(id catalog.LogicalTypeID, value any) ([]byte, error) {
	switch id {
	case catalog.INT64:
		v, ok := value.(int64)
		if !ok {
			return nil, fmt.Errorf("hashindex: want int64 key, got %T", value)
		}
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(v))
		return b, nil
	case catalog.DOUBLE:
		v, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("hashindex: want float64 key, got %T", value)
		}
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		return b, nil
	case catalog.STRING:
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("hashindex: want string key, got %T", value)
		}
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("hashindex: unsupported key type %s", id)
	}
}
