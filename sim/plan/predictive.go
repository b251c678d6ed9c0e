package plan

import "github.com/bpsim/bpsim/sim"

// Predictive extends Heuristic with deferral. When a task's preferred
// resource is busy but a fallback is free, it asks its predicter whether
// waiting — the predicted remaining time on the preferred resource plus the
// task's predicted time there — beats starting on the fallback now. If
// waiting wins, the task gets no triple this round; the completion of the
// preferred resource triggers the next consultation, so the question is
// re-asked the moment the answer can change.
type Predictive struct {
	predicter sim.Predicter
}

// NewPredictive returns the deferring planner backed by the predicter.
func NewPredictive(p sim.Predicter) (*Predictive, error) {
	if p == nil {
		return nil, &sim.ConfigurationError{Component: "plan.Predictive", Reason: "predicter must not be nil"}
	}
	return &Predictive{predicter: p}, nil
}

func (p *Predictive) Assign(snap *sim.Snapshot) ([]sim.Assignment, error) {
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
		} else if p.shouldDefer(snap, t, free, pool) {
			// Wait for the preferred resource; no triple this round.
		} else if remaining <= free.len() {
			if r, ok := free.takeFirst(pool); ok {
				out = append(out, sim.Assignment{Task: t, Resource: r, Moment: snap.Now})
			}
		}
		remaining--
	}
	return out, nil
}

func (p *Predictive) shouldDefer(snap *sim.Snapshot, t *sim.Task, free *availableSet, pool []sim.Resource) bool {
	preferred, ok := preferredResource(t)
	if !ok || !poolContains(pool, preferred) {
		return false
	}
	busy, ok := snap.BusyResources[preferred]
	if !ok {
		return false
	}
	fallback, ok := free.first(pool)
	if !ok || fallback == preferred {
		return false
	}

	wait := p.predicter.PredictRemainingProcessingTime(snap.Process, preferred, busy.Task, busy.Moment, snap.Now) +
		p.predicter.PredictProcessingTime(snap.Process, preferred, t)
	return wait < p.predicter.PredictProcessingTime(snap.Process, fallback, t)
}
