package exec

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/adjacency"
	"github.com/cuemby/graphdb/internal/storage/overflow"
	"github.com/cuemby/graphdb/internal/vector"
)

// RecursiveJoin executes a per-source bounded BFS (spec §4.8).
// lower=0 is implemented as include-self: a zero-length path from a
// source to itself is emitted at level 0 before any expansion.
type RecursiveJoin struct {
	baseOperator

	Child        Operator
	Lists        *adjacency.AdjLists
	PathOvf      *overflow.File
	Lower, Upper int
	TrackPath    bool

	frontier []frontierNode
	src      uint64
	started  bool
	visited  *roaring.Bitmap
	level    int
	out      []recursiveHit
	outPos   int
}

// frontierNode is one BFS-frontier member: the node reached, how many
// distinct paths of the current length reach it, and (only when
// TrackPath) those paths, so expansion can extend each of them one more
// hop without re-deriving it.
type frontierNode struct {
	offset uint64
	mult   uint64
	paths  [][]uint64
}

type recursiveHit struct {
	dst    uint64
	length int
	mult   uint64   // number of distinct length(=length) paths reaching dst, collapsed into one row
	path   []uint64 // alternating node-ids and edge-ids, only when TrackPath
}

func NewRecursiveJoin(id int, child Operator, lists *adjacency.AdjLists, pathOvf *overflow.File, lower, upper int, trackPath bool) *RecursiveJoin {
	return &RecursiveJoin{baseOperator: baseOperator{id}, Child: child, Lists: lists, PathOvf: pathOvf, Lower: lower, Upper: upper, TrackPath: trackPath}
}

func (r *RecursiveJoin) InitLocalState(ec *ExecContext) error { return r.Child.InitLocalState(ec) }

func (r *RecursiveJoin) GetNextTuple(ec *ExecContext) (*vector.DataChunk, bool, error) {
	for {
		if r.outPos < len(r.out) {
			return r.emit(ec)
		}
		if !r.started {
			chunk, ok, err := r.Child.GetNextTuple(ec)
			if err != nil || !ok {
				return nil, ok, err
			}
			pos := chunk.Sel.At(0)
			r.src = chunk.Vectors[0].GetNodeOffset(pos)
			r.started = true
			r.visited = roaring.New()
			r.visited.Add(uint32(r.src))
			r.level = 0
			r.out = nil
			r.outPos = 0

			var startPath []uint64
			if r.TrackPath {
				startPath = []uint64{r.src}
			}
			r.frontier = []frontierNode{{offset: r.src, mult: 1, paths: [][]uint64{startPath}}}

			if r.Lower == 0 {
				r.out = append(r.out, recursiveHit{dst: r.src, length: 0, mult: 1, path: startPath})
			}
			continue
		}
		if err := r.expand(); err != nil {
			return nil, false, err
		}
		if r.outPos >= len(r.out) && len(r.frontier) == 0 {
			r.started = false
			continue
		}
	}
}

// expand runs one BFS level: for every node in the current frontier,
// scan its adjacency and bucket every edge by destination. A node
// already in r.visited (reached at an earlier, shorter level) is
// never re-emitted or re-expanded, so every node that does get
// emitted is emitted exactly once, at its minimal qualifying hop
// count, with every distinct path that reached it at that level (each
// frontier node's path count, and its paths when TrackPath, carried
// over each edge) — which is what both the plain multiplicity count and
// the TRACK_PATH distinct-path list are built from.
func (r *RecursiveJoin) expand() error {
	if r.level >= r.Upper || len(r.frontier) == 0 {
		r.frontier = nil
		return nil
	}
	r.level++

	type bucket struct {
		mult  uint64
		paths [][]uint64
	}
	levelHits := make(map[uint64]*bucket)
	var order []uint64

	for _, fn := range r.frontier {
		cur, err := r.Lists.OpenList(fn.offset)
		if err != nil {
			return err
		}
		dstBuf := make([]uint64, 64)
		edgeBuf := make([]uint64, 64)
		for {
			n, err := r.Lists.Scan(cur, dstBuf, edgeBuf)
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
			for i := 0; i < n; i++ {
				dst := dstBuf[i]
				edge := edgeBuf[i]
				b, ok := levelHits[dst]
				if !ok {
					b = &bucket{}
					levelHits[dst] = b
					order = append(order, dst)
				}
				b.mult += fn.mult
				if r.TrackPath {
					for _, fp := range fn.paths {
						np := make([]uint64, len(fp)+2)
						copy(np, fp)
						np[len(fp)] = edge
						np[len(fp)+1] = dst
						b.paths = append(b.paths, np)
					}
				}
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	var next []frontierNode
	for _, dst := range order {
		if r.visited.Contains(uint32(dst)) {
			continue
		}
		r.visited.Add(uint32(dst))
		b := levelHits[dst]

		next = append(next, frontierNode{offset: dst, mult: b.mult, paths: b.paths})

		if r.level < r.Lower {
			continue
		}
		if r.TrackPath {
			for _, p := range b.paths {
				r.out = append(r.out, recursiveHit{dst: dst, length: r.level, mult: 1, path: p})
			}
		} else {
			r.out = append(r.out, recursiveHit{dst: dst, length: r.level, mult: b.mult})
		}
	}
	r.frontier = next
	return nil
}

func (r *RecursiveJoin) emit(ec *ExecContext) (*vector.DataChunk, bool, error) {
	n := len(r.out) - r.outPos
	if n > ec.Capacity {
		n = ec.Capacity
	}
	dstOut := vector.New(catalog.Primitive(catalog.NODE), ec.Capacity)
	lenOut := vector.New(catalog.Primitive(catalog.INT64), ec.Capacity)
	multOut := vector.New(catalog.Primitive(catalog.INT64), ec.Capacity)
	pathOut := vector.New(catalog.Primitive(catalog.PATH), ec.Capacity)
	pathOut.Ovf = r.PathOvf
	for i := 0; i < n; i++ {
		hit := r.out[r.outPos+i]
		dstOut.SetNodeOffset(i, hit.dst)
		lenOut.SetInt64(i, int64(hit.length))
		multOut.SetInt64(i, int64(hit.mult))
		if hit.path == nil {
			pathOut.SetNull(i, true)
		} else if err := pathOut.SetUint64List(i, hit.path); err != nil {
			return nil, false, err
		}
	}
	r.outPos += n
	return vector.NewDataChunk([]*vector.Vector{dstOut, lenOut, multOut, pathOut}, vector.NewIdentitySelection(n)), true, nil
}

func (r *RecursiveJoin) Clone() Operator {
	return &RecursiveJoin{baseOperator: r.baseOperator, Child: r.Child.Clone(), Lists: r.Lists, PathOvf: r.PathOvf, Lower: r.Lower, Upper: r.Upper, TrackPath: r.TrackPath}
}

func (r *RecursiveJoin) IsSource() bool { return false }
