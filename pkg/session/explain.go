package session

import (
	"fmt"
	"strings"

	"github.com/cuemby/graphdb/internal/plan/enumerate"
)

// describeCandidate renders the enumerator's chosen candidate as the
// operator chain the physical mapper will turn into an execution
// pipeline, annotated with the cardinality/cost estimates that chain
// was picked on (spec §6's `explain` surface).
func describeCandidate(candidate *enumerate.Candidate) string {
	var b strings.Builder
	for i, op := range candidate.Operators {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(op)
	}
	fmt.Fprintf(&b, "  (estimated rows: %.0f, cost: %.2f)", candidate.Cardinality, candidate.Cost)
	return b.String()
}
