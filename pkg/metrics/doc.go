/*
Package metrics provides Prometheus metrics collection and exposition for the
embedded graph database engine.

The package defines and registers every metric using the Prometheus client
library, giving visibility into buffer pool behavior, query compilation and
planning cost, physical execution, and the gRPC surface. Metrics are exposed
via an HTTP handler for scraping by a Prometheus server.

# Metrics Catalog

Buffer Manager:

graphdb_buffer_pool_hits_total{pool}:
  - Type: Counter
  - Description: Pin requests served without an I/O, by pool ("default"/"large")

graphdb_buffer_pool_misses_total{pool}:
  - Type: Counter
  - Description: Pin requests that required a page read or an eviction

graphdb_buffer_pool_frames_in_use{pool}:
  - Type: Gauge
  - Description: Resident frame count (pinned or not), sampled on a timer by Collector

Compile / Plan:

graphdb_compile_duration_seconds:
  - Type: Histogram
  - Description: Time spent parsing, binding, and planning one statement

graphdb_plan_enumeration_duration_seconds:
  - Type: Histogram
  - Description: Time spent in the bottom-up DP plan enumerator

graphdb_plan_enumeration_candidates:
  - Type: Histogram
  - Description: Memo entries produced enumerating one query graph

Execution:

graphdb_execution_duration_seconds{outcome}:
  - Type: Histogram
  - Description: Time spent executing a statement's physical plan

graphdb_queries_total{outcome}:
  - Type: Counter
  - Description: Statements executed, by outcome ("success"/"error")

graphdb_operator_rows_emitted_total{operator}:
  - Type: Counter
  - Description: Rows emitted per operator kind, recorded under PROFILE

graphdb_pipelines_active:
  - Type: Gauge
  - Description: Pipelines currently running across all in-flight queries

Hash Index:

graphdb_hash_index_lookups_total{outcome}:
  - Type: Counter
  - Description: Hash index lookups by hit/miss outcome

gRPC API:

graphdb_rpc_requests_total{method, status}:
  - Type: Counter
  - Description: Requests served by the QueryService, by method and status

graphdb_rpc_request_duration_seconds{method}:
  - Type: Histogram
  - Description: Request duration by method

# Usage

Counters and gauges are updated inline at the point of occurrence — the
buffer pool increments hits/misses from inside Pin, the worker pool
increments/decrements PipelinesActive around a pipeline run. The one gauge
sampled on a timer instead is buffer pool occupancy, via Collector:

	pools := buf.Pools() // []*buffer.Pool, satisfies metrics.BufferPool
	c := metrics.NewCollector(pools[0], pools[1])
	c.Start()
	defer c.Stop()

Timing a statement's compile phase:

	timer := metrics.NewTimer()
	// ... parse, bind, plan ...
	timer.ObserveDuration(metrics.CompileDuration)

Timing execution with an outcome label:

	timer := metrics.NewTimer()
	err := run(plan)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	timer.ObserveDurationVec(metrics.ExecutionDuration, outcome)

Exposing the endpoint:

	http.Handle("/metrics", metrics.Handler())
	http.ListenAndServe(":9090", nil)

# Design Patterns

Package Init Registration:
  - Every metric is registered in init()
  - MustRegister panics on duplicate registration, catching it at startup

Label Discipline:
  - Labels stay low-cardinality: pool name, outcome, operator kind, RPC method
  - Never label with query IDs or node/edge offsets

Health and Readiness:
  - RegisterComponent/UpdateComponent track per-component health
  - GetReadiness gates on the catalog, buffer pool, and RPC components
  - HealthHandler/ReadyHandler/LivenessHandler back /health, /ready, /live

# See Also

  - Prometheus client library: https://github.com/prometheus/client_golang
  - Histogram best practices: https://prometheus.io/docs/practices/histograms/
*/
package metrics
