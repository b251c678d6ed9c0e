// Package plan provides the built-in planners: assignment policies that map
// the engine's state snapshot to (task, resource, moment) triples.
//
// All planners here work in deterministic order: tasks in activation order,
// resources in declaration order. Given equal snapshots they return equal
// batches, which is what keeps whole replications replayable.
package plan

import "github.com/bpsim/bpsim/sim"

// availableSet tracks the not-yet-claimed available resources of one
// planning round, preserving declaration order.
type availableSet struct {
	resources []sim.Resource
}

func newAvailableSet(rs []sim.Resource) *availableSet {
	return &availableSet{resources: append([]sim.Resource(nil), rs...)}
}

func (a *availableSet) len() int {
	return len(a.resources)
}

func (a *availableSet) contains(r sim.Resource) bool {
	for _, other := range a.resources {
		if other == r {
			return true
		}
	}
	return false
}

// take removes the resource from the set, reporting whether it was present.
func (a *availableSet) take(r sim.Resource) bool {
	for i, other := range a.resources {
		if other == r {
			a.resources = append(a.resources[:i], a.resources[i+1:]...)
			return true
		}
	}
	return false
}

// first returns the first remaining resource that is a member of the pool,
// without claiming it.
func (a *availableSet) first(pool []sim.Resource) (sim.Resource, bool) {
	for _, r := range a.resources {
		if poolContains(pool, r) {
			return r, true
		}
	}
	return "", false
}

// takeFirst claims and returns the first remaining pool member.
func (a *availableSet) takeFirst(pool []sim.Resource) (sim.Resource, bool) {
	r, ok := a.first(pool)
	if ok {
		a.take(r)
	}
	return r, ok
}

func poolContains(pool []sim.Resource, r sim.Resource) bool {
	for _, member := range pool {
		if member == r {
			return true
		}
	}
	return false
}

// preferredResource reads the optimal-resource payload label of a task.
func preferredResource(t *sim.Task) (sim.Resource, bool) {
	label, ok := t.Data().Label(sim.OptimalResourceKey)
	if !ok {
		return "", false
	}
	return sim.Resource(label), true
}

// preferredIn returns the task's preferred resource when it is authorized
// for the task type and still free.
func preferredIn(t *sim.Task, free *availableSet, pool []sim.Resource) (sim.Resource, bool) {
	r, ok := preferredResource(t)
	if !ok || !poolContains(pool, r) || !free.contains(r) {
		return "", false
	}
	return r, true
}
