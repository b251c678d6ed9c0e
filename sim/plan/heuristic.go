package plan

import "github.com/bpsim/bpsim/sim"

// Heuristic prefers the resource a task's payload names as optimal and
// claims it whenever it is free. A task whose preferred resource is taken
// stays unassigned, unless the remaining tasks fit within the remaining free
// resources; then holding out would idle capacity for nothing and any
// authorized resource will do. The task counter runs down once per task, so
// the fit test always compares the tail of the queue against what is left.
type Heuristic struct{}

// NewHeuristic returns the preference-matching planner.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Assign(snap *sim.Snapshot) ([]sim.Assignment, error) {
	free := newAvailableSet(snap.AvailableResources)
	var out []sim.Assignment
	remaining := len(snap.UnassignedTasks)
	for _, t := range snap.UnassignedTasks {
		if free.len() == 0 {
			break
		}
		pool := snap.Process.ResourcePool(t.Type())
		if r, ok := preferredIn(t, free, pool); ok {
			free.take(r)
			out = append(out, sim.Assignment{Task: t, Resource: r, Moment: snap.Now})
		} else if remaining <= free.len() {
			if r, ok := free.takeFirst(pool); ok {
				out = append(out, sim.Assignment{Task: t, Resource: r, Moment: snap.Now})
			}
		}
		remaining--
	}
	return out, nil
}
