package processor

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/cuemby/graphdb/internal/exec"
	"github.com/cuemby/graphdb/pkg/config"
	"github.com/cuemby/graphdb/pkg/dberr"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/metrics"
)

// Pool is a fixed-size worker pool running one query's pipelines to
// completion (spec §4.9). Each pipeline's sink operator is Cloned
// once per worker slot so concurrent workers never share per-row
// operator state, while the operators themselves still share whatever
// atomic cursors/tables their constructors wired up front (ScanNodeID's
// cursor, Limit/Skip's budget, a HashJoinBuild's FactorizedTable).
type Pool struct {
	maxWorkers int64
}

func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Pool{maxWorkers: int64(maxWorkers)}
}

// Run executes every pipeline in dependency order, returning the
// total row count its sinks reported (a ResultCollector's RowCount,
// summed) or the first worker error (spec §7: runtime errors cancel
// peers and surface the first failure).
func (p *Pool) Run(ctx context.Context, pipelines []*Pipeline) (int64, error) {
	plog := log.WithComponent("processor")
	done := map[int]bool{}
	var totalRows int64

	for len(done) < len(pipelines) {
		batch := runnable(pipelines, done)
		if len(batch) == 0 {
			return totalRows, dberr.New(dberr.KindRuntimeError, "processor: pipeline dependency cycle or unreachable sink")
		}

		g, gctx := errgroup.WithContext(ctx)
		sem := semaphore.NewWeighted(p.maxWorkers)
		for _, pipe := range batch {
			pipe := pipe
			g.Go(func() error {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)
				metrics.PipelinesActive.Inc()
				defer metrics.PipelinesActive.Dec()
				n, err := p.runPipeline(gctx, pipe)
				if err != nil {
					return err
				}
				atomic.AddInt64(&totalRows, n)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return totalRows, err
		}
		for _, pipe := range batch {
			done[pipe.ID] = true
		}
		plog.Debug().Int("completed", len(batch)).Msg("pipeline batch drained")
	}

	return totalRows, nil
}

// runPipeline spawns up to maxWorkers clones of pipe's sink and drives
// each to exhaustion; morsel-sized claiming happens inside the shared
// source operators (ScanNodeID's atomic cursor), not here.
func (p *Pool) runPipeline(ctx context.Context, pipe *Pipeline) (int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(p.maxWorkers)
	var rows int64

	for i := int64(0); i < p.maxWorkers; i++ {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			worker := pipe.Sink.Clone()
			ec := &exec.ExecContext{Ctx: gctx, Capacity: config.DefaultVectorCapacity}
			if err := worker.InitLocalState(ec); err != nil {
				return err
			}
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				chunk, ok, err := worker.GetNextTuple(ec)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				atomic.AddInt64(&rows, int64(chunk.Sel.Len()))
			}
		})
	}
	if err := g.Wait(); err != nil {
		return rows, err
	}
	return rows, nil
}
