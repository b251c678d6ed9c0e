package plan

import (
	"math"

	"github.com/bpsim/bpsim/sim"
)

// ShortestProcessingTime assigns, per invocation, the single unassigned task
// with the smallest realized processing time on its first free authorized
// resource. Each completion triggers the next consultation, so a batch
// drains in duration order. Reading the realized draw makes it an oracle
// ordering rule, the reference bound for arrival-order planning on the
// stochastic scheduling batch.
type ShortestProcessingTime struct{}

// NewShortestProcessingTime returns the duration-ordering planner.
func NewShortestProcessingTime() *ShortestProcessingTime {
	return &ShortestProcessingTime{}
}

func (sp *ShortestProcessingTime) Assign(snap *sim.Snapshot) ([]sim.Assignment, error) {
	free := newAvailableSet(snap.AvailableResources)

	var best *sim.Task
	var bestResource sim.Resource
	bestTime := math.Inf(1)
	for _, t := range snap.UnassignedTasks {
		r, ok := free.first(snap.Process.ResourcePool(t.Type()))
		if !ok {
			continue
		}
		pt, ok := t.ProcessingTime(r)
		if !ok {
			continue
		}
		// Strict comparison keeps the earliest-activated task on ties.
		if pt < bestTime {
			best, bestResource, bestTime = t, r, pt
		}
	}
	if best == nil {
		return nil, nil
	}
	return []sim.Assignment{{Task: best, Resource: bestResource, Moment: snap.Now}}, nil
}
