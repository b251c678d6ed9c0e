package plan

import "github.com/bpsim/bpsim/sim"

// Greedy assigns unassigned tasks to available resources in order: the first
// task takes the first authorized resource, immediately, at the current
// moment. No payload knowledge, no waiting. It is the baseline every other
// planner is measured against.
type Greedy struct{}

// NewGreedy returns the arrival-order baseline planner.
func NewGreedy() *Greedy {
	return &Greedy{}
}

func (g *Greedy) Assign(snap *sim.Snapshot) ([]sim.Assignment, error) {
	free := newAvailableSet(snap.AvailableResources)
	var out []sim.Assignment
	for _, t := range snap.UnassignedTasks {
		if free.len() == 0 {
			break
		}
		r, ok := free.takeFirst(snap.Process.ResourcePool(t.Type()))
		if !ok {
			continue
		}
		out = append(out, sim.Assignment{Task: t, Resource: r, Moment: snap.Now})
	}
	return out, nil
}
