package predict

import "github.com/bpsim/bpsim/sim"

// Chain predicts the type of the next task to be activated in processes with
// deterministic successor chains. Activations come from two sources: a task
// completion activates the successor of its type, and a case arrival
// activates the initial type. Chain reads the busy resources in declaration
// order and predicts the successor of the first running task that has one;
// with nothing relevant running the next activation can only come from an
// arrival, predicted as the first declared type, the conventional initial
// type of the built-in processes.
type Chain struct {
	// Successors maps a task type to the type that follows it; absent keys
	// end the chain.
	Successors map[sim.TaskType]sim.TaskType
}

func (c *Chain) PredictNextTaskType(p sim.Process, snap *sim.Snapshot) sim.TaskType {
	for _, r := range p.Resources() {
		busy, ok := snap.BusyResources[r]
		if !ok {
			continue
		}
		if next, ok := c.Successors[busy.Task.Type()]; ok {
			return next
		}
	}
	return p.TaskTypes()[0]
}
