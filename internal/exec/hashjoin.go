package exec

import (
	"github.com/cespare/xxhash/v2"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/vector"
)

// FactorizedTable is the row-store materialization hash-join build
// and aggregation both use (spec §3): column 0 is always the 64-bit
// join key, and a trailing next-pointer threads colliding tuples.
type FactorizedTable struct {
	Keys    []uint64
	Payload [][]uint64 // remaining columns, stored as raw node/int64 offsets
	next    []int32

	directory []int32 // sized to next power of two of 2x tuple count
}

func NewFactorizedTable() *FactorizedTable {
	return &FactorizedTable{}
}

func (t *FactorizedTable) append(key uint64, payload []uint64) {
	t.Keys = append(t.Keys, key)
	t.Payload = append(t.Payload, payload)
	t.next = append(t.next, -1)
}

// buildDirectory computes a directory sized to the next power of two
// of 2x tuple count and links colliding tuples by hash(key) (spec
// §4.8 HashJoinBuild contract).
func (t *FactorizedTable) buildDirectory() {
	n := len(t.Keys)
	size := 1
	for size < 2*n {
		size *= 2
	}
	if size == 0 {
		size = 1
	}
	t.directory = make([]int32, size)
	for i := range t.directory {
		t.directory[i] = -1
	}
	for i, k := range t.Keys {
		slot := int(xxhash.Sum64(uint64Bytes(k)) % uint64(size))
		t.next[i] = t.directory[slot]
		t.directory[slot] = int32(i)
	}
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

// chainFor walks the chain for key, calling visit for each candidate
// tuple index; visit returns false to stop early.
func (t *FactorizedTable) chainFor(key uint64, visit func(idx int) bool) {
	if len(t.directory) == 0 {
		return
	}
	slot := int(xxhash.Sum64(uint64Bytes(key)) % uint64(len(t.directory)))
	for idx := t.directory[slot]; idx != -1; idx = t.next[idx] {
		if t.Keys[idx] != key {
			continue
		}
		if !visit(int(idx)) {
			return
		}
	}
}

// HashJoinBuild drains its child into a shared FactorizedTable, keyed
// by the child's first (NODE) vector.
type HashJoinBuild struct {
	baseOperator

	Child Operator
	Table *FactorizedTable
}

func NewHashJoinBuild(id int, child Operator) *HashJoinBuild {
	return &HashJoinBuild{baseOperator: baseOperator{id}, Child: child, Table: NewFactorizedTable()}
}

func (b *HashJoinBuild) InitLocalState(ec *ExecContext) error { return b.Child.InitLocalState(ec) }

// GetNextTuple drains the child to exhaustion, populating Table, then
// reports no output of its own — HashJoinBuild is a materializer, not
// a row source for its own pipeline.
func (b *HashJoinBuild) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	for {
		chunk, ok, err := b.Child.GetNextTuple(ec)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			b.Table.buildDirectory()
			return nil, false, nil
		}
		keyVec := chunk.Vectors[0]
		sel := chunk.Sel
		for i := 0; i < sel.Len(); i++ {
			pos := sel.At(i)
			if keyVec.IsNull(pos) {
				continue
			}
			key := keyVec.GetNodeOffset(pos)
			payload := make([]uint64, len(chunk.Vectors)-1)
			for ci := 1; ci < len(chunk.Vectors); ci++ {
				payload[ci-1] = chunk.Vectors[ci].GetNodeOffset(pos)
			}
			b.Table.append(key, payload)
		}
	}
}

func (b *HashJoinBuild) Clone() Operator {
	return &HashJoinBuild{baseOperator: b.baseOperator, Child: b.Child.Clone(), Table: b.Table}
}

func (b *HashJoinBuild) IsSource() bool { return false }

// HashJoinProbe reads its probe child's key vector and walks the
// build table's chain for each row. Null keys match nothing.
type HashJoinProbe struct {
	baseOperator

	Child Operator
	Table *FactorizedTable

	// pending holds the remaining matches for the probe row currently
	// being expanded, so a match count larger than one morsel batch
	// can be delivered across multiple GetNextTuple calls.
	pending    []int
	pendingKey uint64
}

func NewHashJoinProbe(id int, child Operator, table *FactorizedTable) *HashJoinProbe {
	return &HashJoinProbe{baseOperator: baseOperator{id}, Child: child, Table: table}
}

func (p *HashJoinProbe) InitLocalState(ec *ExecContext) error { return p.Child.InitLocalState(ec) }

func (p *HashJoinProbe) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	for len(p.pending) == 0 {
		chunk, ok, err := p.Child.GetNextTuple(ec)
		if err != nil || !ok {
			return nil, ok, err
		}
		sel := chunk.Sel
		keyVec := chunk.Vectors[0]
		// Probe one row per invocation: chains walked for an unflat
		// batch would require tracking cursors per row, which the
		// morsel scheduler avoids by feeding ScanNodeID/Extend output
		// one flat row at a time into HashJoinProbe already.
		pos := sel.At(0)
		if keyVec.IsNull(pos) {
			continue
		}
		key := keyVec.GetNodeOffset(pos)
		var matches []int
		p.Table.chainFor(key, func(idx int) bool {
			matches = append(matches, idx)
			return true
		})
		if len(matches) == 0 {
			continue
		}
		p.pending = matches
		p.pendingKey = key
	}

	n := len(p.pending)
	if n > ec.Capacity {
		n = ec.Capacity
	}
	batch := p.pending[:n]
	p.pending = p.pending[n:]

	keyOut := vector.New(catalog.Primitive(catalog.NODE), ec.Capacity)
	var payloadOut []*vector.Vector
	if len(batch) > 0 && len(p.Table.Payload[batch[0]]) > 0 {
		payloadOut = make([]*vector.Vector, len(p.Table.Payload[batch[0]]))
		for ci := range payloadOut {
			payloadOut[ci] = vector.New(catalog.Primitive(catalog.NODE), ec.Capacity)
		}
	}
	for i, idx := range batch {
		keyOut.SetNodeOffset(i, p.pendingKey)
		for ci, v := range p.Table.Payload[idx] {
			payloadOut[ci].SetNodeOffset(i, v)
		}
	}
	out := append([]*vector.Vector{keyOut}, payloadOut...)
	return vector.NewDataChunk(out, vector.NewIdentitySelection(len(batch))), true, nil
}

func (p *HashJoinProbe) Clone() Operator {
	return &HashJoinProbe{baseOperator: p.baseOperator, Child: p.Child.Clone(), Table: p.Table}
}

func (p *HashJoinProbe) IsSource() bool { return false }
