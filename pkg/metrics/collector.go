package metrics

import "time"

// BufferPool is the sampling surface a collector needs from a buffer
// pool: a label and its current frame occupancy. internal/buffer.Pool
// satisfies this without pkg/metrics importing it back (Pin/Unpin
// already update BufferPoolHits/BufferPoolMisses inline at the point
// of occurrence; occupancy is the one buffer gauge cheaper to sample
// periodically than to push on every pin).
type BufferPool interface {
	Name() string
	Len() int
}

// Collector periodically samples gauges that are awkward to update
// inline at their point of occurrence (buffer pool occupancy sampled
// across N pools on a timer, rather than on every Pin/Unpin).
type Collector struct {
	pools  []BufferPool
	stopCh chan struct{}
}

// NewCollector builds a collector sampling the given pools.
func NewCollector(pools ...BufferPool) *Collector {
	return &Collector{
		pools:  pools,
		stopCh: make(chan struct{}),
	}
}

// Start begins sampling on a 15 second tick, collecting once
// immediately so a freshly-started process reports gauges right away.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts sampling.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	for _, p := range c.pools {
		BufferPoolFramesInUse.WithLabelValues(p.Name()).Set(float64(p.Len()))
	}
}
