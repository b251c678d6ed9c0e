package sim

import "math/rand"

// Process supplies the stochastic facts of the business process being
// simulated: the resources and task types that exist, how cases arrive, how
// tasks chain, how long work takes, and what payload data tasks carry.
//
// The declaration order of Resources is meaningful: snapshots list available
// resources in that order and the per-task processing-time draws happen in
// that order, so changing it changes the replay.
//
// Every sampling method receives an explicit *rand.Rand owned by the
// simulation instance; implementations must draw randomness only from that
// source. Adapters may be stateful (for example a finite arrival stream), so
// a fresh adapter is constructed per replication.
type Process interface {
	// Resources returns the fixed set of resource labels, in declaration
	// order. Labels must be unique.
	Resources() []Resource

	// TaskTypes returns the fixed set of task-type labels. Labels must be
	// unique.
	TaskTypes() []TaskType

	// ResourcePool returns the subset of Resources authorized to perform
	// tasks of the given type.
	ResourcePool(tt TaskType) []Resource

	// SampleInterarrival draws the time until the next case arrives.
	// Returning +Inf stops arrivals.
	SampleInterarrival(rng *rand.Rand) float64

	// SampleInitialTaskType draws the type of the first task of a new case.
	SampleInitialTaskType(rng *rand.Rand) TaskType

	// SampleNextTaskTypes draws the types of the tasks that follow the given
	// task within its case once it completes. Empty means no successors.
	SampleNextTaskTypes(rng *rand.Rand, t *Task) []TaskType

	// SampleProcessingTime draws the duration the resource needs to perform
	// the task. Called once per (task, resource) pair at task creation.
	SampleProcessingTime(rng *rand.Rand, r Resource, t *Task) float64

	// SampleData draws the payload attached to a new task of the given type.
	SampleData(rng *rand.Rand, tt TaskType) TaskData
}
