// Package prioritize implements the final planning pass: resolving each
// accepted topic's priority tier and deriving a generation order that
// respects ordering relationships. The pass is deterministic and makes
// no AI calls.
package prioritize

import (
	"sort"
	"strings"

	"github.com/wikiplan/wikiplan/internal/types"
)

// Result is the output of the pass.
type Result struct {
	// Priorities maps topic ID to its resolved priority tier.
	Priorities map[string]types.Priority
	// GenerationOrder lists accepted topic IDs in authoring order.
	GenerationOrder []string
	// CycleDetected flags that the ordering graph contained a cycle and
	// part of the order fell back to priority-then-insertion order.
	CycleDetected bool
}

// minPrerequisiteFanout is how many outgoing prerequisite edges promote a
// topic to must-have. Heavily depended-upon topics must exist first.
const minPrerequisiteFanout = 3

// Run resolves priorities and generation order for the accepted topics.
// Topics arrive in insertion order, which is the tie-break of last resort
// throughout.
func Run(topics []*types.Topic, confirmed []types.TopicRelationship, seedNames []string) Result {
	seeds := make(map[string]bool, len(seedNames))
	for _, name := range seedNames {
		seeds[strings.ToLower(strings.TrimSpace(name))] = true
	}

	prerequisiteFanout := make(map[string]int)
	for _, r := range confirmed {
		if r.Type == types.RelPrerequisiteOf {
			prerequisiteFanout[r.SourceID]++
		}
	}

	priorities := make(map[string]types.Priority, len(topics))
	for _, t := range topics {
		priorities[t.ID] = resolvePriority(t, prerequisiteFanout, seeds)
	}

	order, cycle := generationOrder(topics, confirmed, priorities)
	return Result{
		Priorities:      priorities,
		GenerationOrder: order,
		CycleDetected:   cycle,
	}
}

// resolvePriority applies the priority rules in order; the first match
// wins.
func resolvePriority(t *types.Topic, prerequisiteFanout map[string]int, seeds map[string]bool) types.Priority {
	switch {
	case t.IsLandingPage:
		return types.PriorityMustHave
	case prerequisiteFanout[t.ID] >= minPrerequisiteFanout:
		return types.PriorityMustHave
	case seeds[strings.ToLower(strings.TrimSpace(t.Name))]:
		return types.PriorityMustHave
	case t.Priority == types.PriorityMustHave:
		return types.PriorityMustHave
	default:
		return types.PriorityShouldHave
	}
}

// generationOrder derives a stable topological ordering over the
// ordering-type edges. The ready set is drained by priority tier, then
// insertion order. The graph may contain cycles because suggestion
// sources are unreliable; a cycle never panics: the remaining subset is
// appended in priority-then-insertion order and the result is flagged.
func generationOrder(topics []*types.Topic, confirmed []types.TopicRelationship, priorities map[string]types.Priority) ([]string, bool) {
	insertion := make(map[string]int, len(topics))
	ids := make([]string, 0, len(topics))
	for i, t := range topics {
		insertion[t.ID] = i
		ids = append(ids, t.ID)
	}

	// Only edges between accepted topics constrain the order.
	indegree := make(map[string]int, len(topics))
	successors := make(map[string][]string)
	for _, r := range confirmed {
		if !r.Type.ImpliesOrdering() {
			continue
		}
		if _, ok := insertion[r.SourceID]; !ok {
			continue
		}
		if _, ok := insertion[r.TargetID]; !ok {
			continue
		}
		successors[r.SourceID] = append(successors[r.SourceID], r.TargetID)
		indegree[r.TargetID]++
	}

	less := func(a, b string) bool {
		pa, pb := priorities[a].Rank(), priorities[b].Rank()
		if pa != pb {
			return pa < pb
		}
		return insertion[a] < insertion[b]
	}

	var ready []string
	for _, id := range ids {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })

	order := make([]string, 0, len(ids))
	placed := make(map[string]bool, len(ids))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		placed[id] = true
		for _, succ := range successors[id] {
			indegree[succ]--
			if indegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
		sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })
	}

	if len(order) == len(ids) {
		return order, false
	}

	// Cycle fallback: the unplaced subset in priority-then-insertion order.
	var rest []string
	for _, id := range ids {
		if !placed[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return less(rest[i], rest[j]) })
	return append(order, rest...), true
}
