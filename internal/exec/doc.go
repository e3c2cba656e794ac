/*
Package exec implements the physical execution operators of spec
§4.8. Every operator implements Operator: init_local_state,
get_next_tuple, clone, and is_source. Sources pull from storage
(internal/storage/column, internal/storage/adjacency,
internal/storage/hashindex); non-sources pull from their child.
Pipelines end at a materializer (HashJoinBuild, ResultCollector,
Aggregate, OrderBy); internal/processor runs pipelines in topological
order and may parallelize a pipeline across morsels.
*/
package exec
