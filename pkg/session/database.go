package session

import (
	"fmt"
	"os"

	"github.com/cuemby/graphdb/internal/buffer"
	"github.com/cuemby/graphdb/internal/catalog"
	"github.com/cuemby/graphdb/internal/processor"
	"github.com/cuemby/graphdb/internal/storage/graph"
	"github.com/cuemby/graphdb/pkg/config"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/metrics"
)

// Database is the process-wide shared state a graphdb embedder opens
// once: the buffer manager, the catalog, on-disk graph storage, a
// worker pool for morsel-parallel dispatch, and a metrics collector —
// the engine's analogue of the teacher's manager.Manager owning
// cluster-wide state behind a Config-built constructor.
type Database struct {
	cfg config.Config

	Buffer    *buffer.Manager
	Catalog   *catalog.Catalog
	Store     *graph.Store
	Workers   *processor.Pool
	Collector *metrics.Collector

	dataDir string
}

// Open creates (if absent) the data directory cfg.Database describes
// and wires every owned subsystem against it. InMemoryMode maps to
// mmap-backed page files rather than a true no-file mode, matching
// internal/buffer's documented mmap-always-for-InMemoryMode behavior.
func Open(cfg config.Config) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.Database.DatabasePath
	if cfg.Database.InMemoryMode && dataDir == "" {
		dir, err := os.MkdirTemp("", "graphdb-")
		if err != nil {
			return nil, fmt.Errorf("create in-memory data dir: %w", err)
		}
		dataDir = dir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}

	mgr := buffer.NewManager(cfg.System)

	cat, err := catalog.Open(dataDir)
	if err != nil {
		return nil, err
	}

	store, err := graph.Open(mgr, cat, dataDir, cfg.Database.InMemoryMode)
	if err != nil {
		cat.Close()
		return nil, err
	}

	pools := mgr.Pools()
	collector := metrics.NewCollector(pools[0], pools[1])
	collector.Start()

	metrics.RegisterComponent("catalog", true, "")
	metrics.RegisterComponent("buffer_pool", true, "")
	metrics.RegisterComponent("rpc", false, "rpc server not yet started")

	log.WithComponent("database").Info().Str("data_dir", dataDir).Bool("in_memory", cfg.Database.InMemoryMode).Msg("database opened")

	return &Database{
		cfg:       cfg,
		Buffer:    mgr,
		Catalog:   cat,
		Store:     store,
		Workers:   processor.NewPool(cfg.System.MaxNumThreads),
		Collector: collector,
		dataDir:   dataDir,
	}, nil
}

// Connect returns a new Connection bound to this Database, mirroring
// the teacher's Manager handing out a per-caller Store handle.
func (d *Database) Connect() *Connection {
	return &Connection{db: d, prepared: make(map[string]*PreparedStatement)}
}

// ResizeBufferManager implements the connection-API-level operation
// named in spec §6, exposed here as a Database method so it can be
// called without going through a Connection (the CLI's `admin
// resize-buffer` subcommand calls this directly).
func (d *Database) ResizeBufferManager(defaultPoolBytes, largePoolBytes uint64) error {
	return d.Buffer.ResizeBufferManager(defaultPoolBytes, largePoolBytes)
}

// Close stops the metrics collector and flushes/closes every owned
// subsystem in dependency order: storage files before the buffer
// manager that owns their frames, the catalog last since nothing else
// depends on it staying open.
func (d *Database) Close() error {
	d.Collector.Stop()
	if err := d.Buffer.Close(); err != nil {
		return err
	}
	return d.Catalog.Close()
}
