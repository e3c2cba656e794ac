package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cuemby/graphdb/pkg/log"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketNodeLabels = []byte("node_labels")
	bucketRelLabels  = []byte("rel_labels")
	bucketWALMeta    = []byte("wal_meta")
)

// Catalog is the schema store for a Database: node/rel label
// definitions persisted in an embedded b+tree, plus an in-memory
// read cache since queries read the catalog far more often than DDL
// writes it (spec §5: "Catalog: read-only during query execution").
type Catalog struct {
	db *bolt.DB

	mu         sync.RWMutex
	nodeLabels map[string]*NodeLabel
	relLabels  map[string]*RelLabel
	nextLabel  uint32
}

// Open opens (creating if absent) the catalog's backing file under
// dataDir and loads all label definitions into memory.
func Open(dataDir string) (*Catalog, error) {
	dbPath := filepath.Join(dataDir, "catalog.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketNodeLabels, bucketRelLabels, bucketWALMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	c := &Catalog{
		db:         db,
		nodeLabels: make(map[string]*NodeLabel),
		relLabels:  make(map[string]*RelLabel),
	}
	if err := c.loadAll(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadAll() error {
	return c.db.View(func(tx *bolt.Tx) error {
		nb := tx.Bucket(bucketNodeLabels)
		if err := nb.ForEach(func(k, v []byte) error {
			var l NodeLabel
			if err := json.Unmarshal(v, &l); err != nil {
				return err
			}
			c.nodeLabels[l.Name] = &l
			if l.ID >= c.nextLabel {
				c.nextLabel = l.ID + 1
			}
			return nil
		}); err != nil {
			return err
		}

		rb := tx.Bucket(bucketRelLabels)
		return rb.ForEach(func(k, v []byte) error {
			var l RelLabel
			if err := json.Unmarshal(v, &l); err != nil {
				return err
			}
			c.relLabels[l.Name] = &l
			if l.ID >= c.nextLabel {
				c.nextLabel = l.ID + 1
			}
			return nil
		})
	})
}

// CreateNodeLabel registers a new node label and persists it.
func (c *Catalog) CreateNodeLabel(name string, props []PropertyDef, pkProp int) (*NodeLabel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.nodeLabels[name]; exists {
		return nil, fmt.Errorf("node label %q already exists", name)
	}

	l := &NodeLabel{
		ID:                 c.nextLabel,
		Name:               name,
		Properties:         props,
		PrimaryKeyProperty: pkProp,
	}
	c.nextLabel++

	if err := c.putNodeLabel(l); err != nil {
		return nil, err
	}
	c.nodeLabels[name] = l
	log.WithComponent("catalog").Info().Str("label", name).Uint32("id", l.ID).Msg("created node label")
	return l, nil
}

// CreateRelLabel registers a new rel label and persists it.
func (c *Catalog) CreateRelLabel(name string, props []PropertyDef, srcLabels, dstLabels []uint32, card Cardinality) (*RelLabel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.relLabels[name]; exists {
		return nil, fmt.Errorf("rel label %q already exists", name)
	}

	l := &RelLabel{
		ID:          c.nextLabel,
		Name:        name,
		Properties:  props,
		SrcLabelIDs: srcLabels,
		DstLabelIDs: dstLabels,
		Cardinality: card,
	}
	c.nextLabel++

	if err := c.putRelLabel(l); err != nil {
		return nil, err
	}
	c.relLabels[name] = l
	log.WithComponent("catalog").Info().Str("label", name).Uint32("id", l.ID).Msg("created rel label")
	return l, nil
}

// UpdateNodeLabel persists a mutated NodeLabel (e.g. MaxNodeOffset
// bumped by a CREATE statement).
func (c *Catalog) UpdateNodeLabel(l *NodeLabel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.putNodeLabel(l); err != nil {
		return err
	}
	c.nodeLabels[l.Name] = l
	return nil
}

func (c *Catalog) putNodeLabel(l *NodeLabel) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNodeLabels).Put([]byte(l.Name), data)
	})
}

func (c *Catalog) putRelLabel(l *RelLabel) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRelLabels).Put([]byte(l.Name), data)
	})
}

// NodeLabel looks up a node label by name.
func (c *Catalog) NodeLabel(name string) (*NodeLabel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.nodeLabels[name]
	return l, ok
}

// RelLabel looks up a rel label by name.
func (c *Catalog) RelLabel(name string) (*RelLabel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.relLabels[name]
	return l, ok
}

// NodeLabels returns every registered node label.
func (c *Catalog) NodeLabels() []*NodeLabel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*NodeLabel, 0, len(c.nodeLabels))
	for _, l := range c.nodeLabels {
		out = append(out, l)
	}
	return out
}

// RelLabels returns every registered rel label.
func (c *Catalog) RelLabels() []*RelLabel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*RelLabel, 0, len(c.relLabels))
	for _, l := range c.relLabels {
		out = append(out, l)
	}
	return out
}

// WALSequence returns the last checkpointed WAL sequence number — the
// write-ahead log itself is an external collaborator (spec §1); this
// is the one checkpoint bookkeeping surface that stays in scope.
func (c *Catalog) WALSequence() (uint64, error) {
	var seq uint64
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketWALMeta).Get([]byte("sequence"))
		if v == nil {
			return nil
		}
		seq = decodeUint64(v)
		return nil
	})
	return seq, err
}

// SetWALSequence persists the WAL checkpoint sequence number.
func (c *Catalog) SetWALSequence(seq uint64) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWALMeta).Put([]byte("sequence"), encodeUint64(seq))
	})
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func decodeUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8 && i < len(b); i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
