package graph

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/storage/adjacency"
	"github.com/cuemby/graphdb/internal/storage/column"
	"github.com/cuemby/graphdb/internal/storage/hashindex"
	"github.com/cuemby/graphdb/internal/storage/overflow"
	"github.com/cuemby/graphdb/pkg/dberr"
)

// NodeStore is the on-disk data for one node label: one Column per
// structured property, a primary-key hash index when the label
// declares one, and the bump allocator handing out node offsets.
type NodeStore struct {
	Label   *catalog.NodeLabel
	Columns []*column.Column // indexed by PropertyDef.ColumnIndex
	PK      *hashindex.Index // nil if Label.PrimaryKeyProperty < 0

	nextOffset atomic.Uint64
}

// AllocOffset hands out the next node offset for this label.
func (n *NodeStore) AllocOffset() uint64 {
	return n.nextOffset.Add(1) - 1
}

// RelStore is the on-disk adjacency for one rel label in both
// directions. Exactly one of {ForwardCol, ForwardLists} and one of
// {BackwardCol, BackwardLists} is non-nil, chosen by whether that
// direction's cardinality caps fan-out at one (spec §4.2).
type RelStore struct {
	Label *catalog.RelLabel

	ForwardCol    *adjacency.AdjColumn
	ForwardLists  *adjacency.AdjLists
	BackwardCol   *adjacency.AdjColumn
	BackwardLists *adjacency.AdjLists

	// EdgeColumns holds one property Column per RelLabel.Properties
	// entry, indexed by edge id exactly the way NodeStore.Columns is
	// indexed by node offset — edge ids are a dense bump allocation
	// too, so the same Column type serves both id spaces.
	EdgeColumns []*column.Column

	nextEdgeID atomic.Uint64
}

// AllocEdgeID hands out the next edge identifier for this rel label.
func (r *RelStore) AllocEdgeID() uint64 {
	return r.nextEdgeID.Add(1) - 1
}

// Adjacency returns this rel's structure for the given direction,
// satisfying internal/plan/physical.Resources.
func (r *RelStore) Adjacency(dir catalog.RelDirection) (*adjacency.AdjColumn, *adjacency.AdjLists) {
	if dir == catalog.Forward {
		return r.ForwardCol, r.ForwardLists
	}
	return r.BackwardCol, r.BackwardLists
}

// forwardIsSingular reports whether a src can reach at most one dst
// under label's cardinality — true for OneToOne/ManyToOne (1:1/N:1),
// where the "One" on the dst side bounds a single src's fan-out.
func forwardIsSingular(c catalog.Cardinality) bool {
	return c == catalog.OneToOne || c == catalog.ManyToOne
}

// backwardIsSingular reports the mirror: can a dst be reached from at
// most one src (OneToOne/OneToMany).
func backwardIsSingular(c catalog.Cardinality) bool {
	return c == catalog.OneToOne || c == catalog.OneToMany
}

// Store owns every opened NodeStore/RelStore for a Database, keyed by
// label name, and is the concrete backing for query execution and for
// CREATE/SET/DELETE mutation (graph/mutate.go).
type Store struct {
	mgr     *buffer.Manager
	cat     *catalog.Catalog
	dir     string
	useMmap bool

	mu   sync.RWMutex
	node map[string]*NodeStore
	rel  map[string]*RelStore

	// pathOvf backs RecursiveJoin's materialized-path output column
	// (spec §4.8 TRACK_PATH). Paths are derived at query time, not
	// stored property data, so they share one scratch overflow file
	// across every rel label rather than one per RelStore.
	pathOvf *overflow.File
}

// Open opens (creating on first use) storage for every label already
// registered in cat. Labels created after Open are picked up lazily by
// EnsureNodeStore/EnsureRelStore, which the DDL write path calls.
func Open(mgr *buffer.Manager, cat *catalog.Catalog, dataDir string, useMmap bool) (*Store, error) {
	pathOvfPf, err := mgr.OpenFile(filepath.Join(dataDir, "recursive_paths.ovf"), buffer.DefaultPageClass, useMmap)
	if err != nil {
		return nil, err
	}
	s := &Store{
		mgr:     mgr,
		cat:     cat,
		dir:     dataDir,
		useMmap: useMmap,
		pathOvf: overflow.New(mgr, pathOvfPf),
		node:    make(map[string]*NodeStore),
		rel:     make(map[string]*RelStore),
	}
	for _, l := range cat.NodeLabels() {
		if _, err := s.EnsureNodeStore(l); err != nil {
			return nil, err
		}
	}
	for _, l := range cat.RelLabels() {
		if _, err := s.EnsureRelStore(l); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// EnsureNodeStore returns label's NodeStore, opening its backing
// files on first reference.
func (s *Store) EnsureNodeStore(label *catalog.NodeLabel) (*NodeStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.node[label.Name]; ok {
		return ns, nil
	}

	base := filepath.Join(s.dir, "nodes", label.Name)
	ns := &NodeStore{Label: label, Columns: make([]*column.Column, len(label.Properties))}
	ns.nextOffset.Store(label.MaxNodeOffset)

	for _, p := range label.Properties {
		var ovf *overflow.File
		if p.Type.ID.IsVariableWidth() {
			ovfPf, err := s.mgr.OpenFile(filepath.Join(base, fmt.Sprintf("%s.ovf", p.Name)), buffer.DefaultPageClass, s.useMmap)
			if err != nil {
				return nil, err
			}
			ovf = overflow.New(s.mgr, ovfPf)
		}
		pf, err := s.mgr.OpenFile(filepath.Join(base, fmt.Sprintf("%s.col", p.Name)), buffer.DefaultPageClass, s.useMmap)
		if err != nil {
			return nil, err
		}
		ns.Columns[p.ColumnIndex] = column.Open(s.mgr, pf, p.Type, ovf)
	}

	if label.PrimaryKeyProperty >= 0 {
		pk := label.Properties[label.PrimaryKeyProperty]
		idx, err := hashindex.Open(s.mgr, filepath.Join(base, "pk"), pk.Type.ID)
		if err != nil {
			return nil, err
		}
		ns.PK = idx
	}

	s.node[label.Name] = ns
	return ns, nil
}

// EnsureRelStore returns label's RelStore, opening its backing files
// (AdjColumn or AdjLists per direction, per Cardinality) on first
// reference.
func (s *Store) EnsureRelStore(label *catalog.RelLabel) (*RelStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rs, ok := s.rel[label.Name]; ok {
		return rs, nil
	}

	base := filepath.Join(s.dir, "rels", label.Name)
	rs := &RelStore{Label: label, EdgeColumns: make([]*column.Column, len(label.Properties))}

	for _, p := range label.Properties {
		var ovf *overflow.File
		if p.Type.ID.IsVariableWidth() {
			ovfPf, err := s.mgr.OpenFile(filepath.Join(base, fmt.Sprintf("%s.ovf", p.Name)), buffer.DefaultPageClass, s.useMmap)
			if err != nil {
				return nil, err
			}
			ovf = overflow.New(s.mgr, ovfPf)
		}
		pf, err := s.mgr.OpenFile(filepath.Join(base, fmt.Sprintf("%s.col", p.Name)), buffer.DefaultPageClass, s.useMmap)
		if err != nil {
			return nil, err
		}
		rs.EdgeColumns[p.ColumnIndex] = column.Open(s.mgr, pf, p.Type, ovf)
	}

	openColumn := func(name string) (*adjacency.AdjColumn, error) {
		dstPf, err := s.mgr.OpenFile(filepath.Join(base, name+".dst"), buffer.DefaultPageClass, s.useMmap)
		if err != nil {
			return nil, err
		}
		edgePf, err := s.mgr.OpenFile(filepath.Join(base, name+".edge"), buffer.DefaultPageClass, s.useMmap)
		if err != nil {
			return nil, err
		}
		return adjacency.OpenAdjColumn(s.mgr, dstPf, edgePf), nil
	}
	openLists := func(name string) (*adjacency.AdjLists, error) {
		headerPf, err := s.mgr.OpenFile(filepath.Join(base, name+".hdr"), buffer.DefaultPageClass, s.useMmap)
		if err != nil {
			return nil, err
		}
		chunkPf, err := s.mgr.OpenFile(filepath.Join(base, name+".chunks"), buffer.LargePageClass, s.useMmap)
		if err != nil {
			return nil, err
		}
		return adjacency.OpenAdjLists(s.mgr, headerPf, chunkPf), nil
	}

	var err error
	if forwardIsSingular(label.Cardinality) {
		rs.ForwardCol, err = openColumn("forward")
	} else {
		rs.ForwardLists, err = openLists("forward")
	}
	if err != nil {
		return nil, err
	}
	if backwardIsSingular(label.Cardinality) {
		rs.BackwardCol, err = openColumn("backward")
	} else {
		rs.BackwardLists, err = openLists("backward")
	}
	if err != nil {
		return nil, err
	}

	s.rel[label.Name] = rs
	return rs, nil
}

func (s *Store) NodeStore(label string) (*NodeStore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.node[label]
	return ns, ok
}

func (s *Store) RelStore(label string) (*RelStore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.rel[label]
	return rs, ok
}

// NodeMaxOffset satisfies internal/plan/physical.Resources.
func (s *Store) NodeMaxOffset(label string) uint64 {
	ns, ok := s.NodeStore(label)
	if !ok {
		return 0
	}
	return ns.Label.MaxNodeOffset
}

// Adjacency satisfies internal/plan/physical.Resources.
func (s *Store) Adjacency(relLabel string, dir catalog.RelDirection) (*adjacency.AdjColumn, *adjacency.AdjLists) {
	rs, ok := s.RelStore(relLabel)
	if !ok {
		return nil, nil
	}
	return rs.Adjacency(dir)
}

// PathOverflow satisfies internal/plan/physical.Resources.
func (s *Store) PathOverflow() *overflow.File {
	return s.pathOvf
}

var errUnknownLabel = func(kind, name string) error {
	return dberr.New(dberr.KindRuntimeError, "graph: unknown %s label %q", kind, name)
}
