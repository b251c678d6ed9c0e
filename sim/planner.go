package sim

// Planner decides which unassigned task each available resource should work
// on, and from when. Assign receives a read-only snapshot and returns
// (task, resource, moment) triples; each triple is validated and committed
// independently, in order, by the invocation protocol.
//
// Returning no triple for a task is the deferral mechanism: the task simply
// stays unassigned and the planner is consulted again at the next trigger.
//
// An error returned from Assign — or a panic raised in it — is fatal to the
// replication (PlannerFailure).
type Planner interface {
	Assign(snap *Snapshot) ([]Assignment, error)
}

// PlannerFunc adapts a plain function to the Planner interface.
type PlannerFunc func(snap *Snapshot) ([]Assignment, error)

func (f PlannerFunc) Assign(snap *Snapshot) ([]Assignment, error) { return f(snap) }

// EagerPlanner is an optional capability. A planner that returns true is
// consulted after every event, not only after the arrivals and completions
// that change the planning state. Deferring strategies that want to
// re-evaluate on task starts opt in through this.
type EagerPlanner interface {
	PlanEveryEvent() bool
}
