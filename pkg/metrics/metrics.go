package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Buffer manager metrics
	BufferPoolHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_buffer_pool_hits_total",
			Help: "Total number of buffer pool pin requests served without an I/O",
		},
		[]string{"pool"},
	)

	BufferPoolMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_buffer_pool_misses_total",
			Help: "Total number of buffer pool pin requests that required a page read or eviction",
		},
		[]string{"pool"},
	)

	BufferPoolFramesInUse = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graphdb_buffer_pool_frames_in_use",
			Help: "Resident frame count per pool, pinned or not",
		},
		[]string{"pool"},
	)

	// Compile/plan metrics
	CompileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphdb_compile_duration_seconds",
			Help:    "Time spent parsing, binding, and planning a statement",
			Buckets: prometheus.DefBuckets,
		},
	)

	PlanEnumerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphdb_plan_enumeration_duration_seconds",
			Help:    "Time spent in the bottom-up DP plan enumerator",
			Buckets: prometheus.DefBuckets,
		},
	)

	PlanEnumerationCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphdb_plan_enumeration_candidates",
			Help:    "Number of memo entries produced enumerating one query graph",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// Execution metrics
	ExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphdb_execution_duration_seconds",
			Help:    "Time spent executing a statement's physical plan",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"}, // "success" | "error"
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_queries_total",
			Help: "Total number of statements executed by outcome",
		},
		[]string{"outcome"},
	)

	OperatorRowsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_operator_rows_emitted_total",
			Help: "Rows emitted per operator kind, recorded when a statement runs with PROFILE",
		},
		[]string{"operator"},
	)

	PipelinesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphdb_pipelines_active",
			Help: "Number of pipelines currently running across all in-flight queries",
		},
	)

	// Hash index metrics
	HashIndexLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_hash_index_lookups_total",
			Help: "Total hash index lookups by hit/miss outcome",
		},
		[]string{"outcome"},
	)

	// gRPC API metrics
	RPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_rpc_requests_total",
			Help: "Total number of gRPC requests by method and status",
		},
		[]string{"method", "status"},
	)

	RPCRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphdb_rpc_request_duration_seconds",
			Help:    "gRPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(BufferPoolHits)
	prometheus.MustRegister(BufferPoolMisses)
	prometheus.MustRegister(BufferPoolFramesInUse)

	prometheus.MustRegister(CompileDuration)
	prometheus.MustRegister(PlanEnumerationDuration)
	prometheus.MustRegister(PlanEnumerationCandidates)

	prometheus.MustRegister(ExecutionDuration)
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(OperatorRowsEmitted)
	prometheus.MustRegister(PipelinesActive)

	prometheus.MustRegister(HashIndexLookups)

	prometheus.MustRegister(RPCRequestsTotal)
	prometheus.MustRegister(RPCRequestDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
