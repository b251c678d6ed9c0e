package process

import (
	"testing"

	"github.com/bpsim/bpsim/sim"
)

// capturingPlanner books each unassigned task onto the first idle authorized
// resource and records every task the first time it appears. Tests use the
// captured tasks to probe payload-dependent sampling, which needs real tasks
// built by the engine.
type capturingPlanner struct {
	seen  map[sim.TaskID]bool
	tasks []*sim.Task
}

func newCapturingPlanner() *capturingPlanner {
	return &capturingPlanner{seen: make(map[sim.TaskID]bool)}
}

func (c *capturingPlanner) Assign(snap *sim.Snapshot) ([]sim.Assignment, error) {
	free := append([]sim.Resource(nil), snap.AvailableResources...)
	var out []sim.Assignment
	for _, task := range snap.UnassignedTasks {
		if !c.seen[task.ID()] {
			c.seen[task.ID()] = true
			c.tasks = append(c.tasks, task)
		}
		for i, r := range free {
			if poolHas(snap.Process.ResourcePool(task.Type()), r) {
				out = append(out, sim.Assignment{Task: task, Resource: r, Moment: snap.Now})
				free = append(free[:i], free[i+1:]...)
				break
			}
		}
	}
	return out, nil
}

func poolHas(pool []sim.Resource, r sim.Resource) bool {
	for _, member := range pool {
		if member == r {
			return true
		}
	}
	return false
}

// captureTasks runs the process until the horizon and returns every task the
// engine activated, in activation order.
func captureTasks(t *testing.T, p sim.Process, horizon float64) []*sim.Task {
	t.Helper()
	cp := newCapturingPlanner()
	s, err := sim.NewSimulator(p, cp, nil, sim.Config{Seed: 11, Horizon: horizon})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if len(cp.tasks) == 0 {
		t.Fatal("no tasks captured; horizon too short?")
	}
	return cp.tasks
}
