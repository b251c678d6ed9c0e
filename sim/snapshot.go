package sim

// Assignment binds a task to a resource from a given moment. Planners return
// assignments from Assign; the snapshot uses the same shape to describe
// already-committed work (Moment is then the scheduled start for a reserved
// resource, the actual start for a busy one).
type Assignment struct {
	Task     *Task
	Resource Resource
	Moment   float64
}

// Snapshot is the read-only view of simulation state handed to a planner for
// one invocation. The collections are fresh copies, so a planner may reorder
// or filter them freely without corrupting the engine; the entities
// themselves only expose read accessors outside package sim.
//
// Ordering is deterministic: unassigned tasks in activation order, assigned
// tasks in commit order, available resources in process declaration order,
// busy cases in arrival order. Planners that iterate the reserved/busy maps
// must impose their own order before acting on the iteration.
type Snapshot struct {
	// Now is the current simulated time.
	Now float64

	// Process gives planners and their predicters access to the process
	// facts (pools, declared resources). Read-only by contract.
	Process Process

	// UnassignedTasks holds every activated, not yet assigned task, in
	// activation order.
	UnassignedTasks []*Task

	// AssignedTasks holds every committed, not yet completed assignment, in
	// commit order.
	AssignedTasks []Assignment

	// AvailableResources holds the idle resources, in declaration order.
	AvailableResources []Resource

	// ReservedResources maps each reserved resource to its committed
	// assignment (Moment = scheduled start).
	ReservedResources map[Resource]Assignment

	// BusyResources maps each working resource to its running assignment
	// (Moment = actual start).
	BusyResources map[Resource]Assignment

	// BusyCases holds the cases that have arrived and not yet completed, in
	// arrival order.
	BusyCases []*Case
}

// snapshot builds the planner view from current simulator state.
func (s *Simulator) snapshot() *Snapshot {
	snap := &Snapshot{
		Now:                s.queue.Now(),
		Process:            s.process,
		UnassignedTasks:    s.unassigned.items(),
		AssignedTasks:      make([]Assignment, 0, len(s.assignedOrder)),
		AvailableResources: s.availableResources(),
		ReservedResources:  make(map[Resource]Assignment, len(s.reserved)),
		BusyResources:      make(map[Resource]Assignment, len(s.busy)),
		BusyCases:          make([]*Case, len(s.busyCases)),
	}
	for _, id := range s.assignedOrder {
		snap.AssignedTasks = append(snap.AssignedTasks, s.assigned[id])
	}
	for r, a := range s.reserved {
		snap.ReservedResources[r] = a
	}
	for r, a := range s.busy {
		snap.BusyResources[r] = a
	}
	copy(snap.BusyCases, s.busyCases)
	return snap
}

// availableResources lists the currently idle resources in the process's
// declaration order, which keeps planner iteration deterministic.
func (s *Simulator) availableResources() []Resource {
	out := make([]Resource, 0, len(s.resources))
	for _, r := range s.resources {
		if s.resourceState[r] == ResourceAvailable {
			out = append(out, r)
		}
	}
	return out
}
