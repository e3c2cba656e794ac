// Package processor implements the query processor of spec §4.9: a
// fixed-size worker pool that runs pipelines of physical operators.
//
// A pipeline is a chain ending at a materializer (HashJoinBuild,
// Aggregate, OrderBy, ResultCollector); its predecessors are the
// scanners/operators feeding it. Pipelines without predecessors are
// immediately runnable; a materializer's dependents become runnable
// once it has drained. Within one pipeline, runnable work is split
// into morsels that workers claim via an atomic cursor — the same
// claiming discipline internal/exec's ScanNodeID and Limit/Skip
// already use for their own shared counters.
package processor
