package processor

import "github.com/cuemby/graphdb/internal/exec"

// Pipeline is one chain of operators from a set of sources down to a
// single sink. A pipeline with an empty Dependencies set is runnable
// immediately; others become runnable once every dependency pipeline
// has finished draining its sink (spec §4.9: "dependencies are the
// materializer→scanner edges").
//
// Pipelines are supplied by the physical-plan assembler rather than
// rediscovered here: whoever builds a HashJoinBuild/HashJoinProbe pair
// already holds both operator references and knows the dependency
// directly, so recovering it by inspecting operator values after the
// fact would just be reconstructing information the caller never lost.
type Pipeline struct {
	ID           int
	Sink         exec.Operator
	Dependencies []int
}

// NewSinglePipeline wraps one sink with no dependencies — the common
// case for a plan whose operator tree is a single Extend-chain ending
// at a ResultCollector, with no HashJoinBuild stage.
func NewSinglePipeline(sink exec.Operator) []*Pipeline {
	return []*Pipeline{{ID: 0, Sink: sink}}
}

// runnable reports which not-yet-finished pipelines have every
// dependency in done.
func runnable(pipelines []*Pipeline, done map[int]bool) []*Pipeline {
	var out []*Pipeline
	for _, p := range pipelines {
		if done[p.ID] {
			continue
		}
		ready := true
		for _, d := range p.Dependencies {
			if !done[d] {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, p)
		}
	}
	return out
}
