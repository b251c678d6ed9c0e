// Error taxonomy of the engine. Fatal errors (CausalityViolation,
// PlannerFailure) abort the replication that raised them; InvalidAssignment
// is recovered per triple; ConfigurationError surfaces before any event runs.

package sim

import "fmt"

// CausalityViolation reports an attempt to schedule an event before the
// current clock, or at an undefined moment. Always a programming error in
// the process adapter or the lifecycle code; fatal to the replication.
type CausalityViolation struct {
	Kind   EventType
	Moment float64
	Now    float64
}

func (e *CausalityViolation) Error() string {
	return fmt.Sprintf("causality violation: %s event scheduled at %g behind clock %g", e.Kind, e.Moment, e.Now)
}

// InvalidAssignment reports a planner-proposed triple that failed commit
// validation. The triple is dropped without touching state; the rest of the
// batch is still attempted.
type InvalidAssignment struct {
	TaskID   TaskID
	Resource Resource
	Moment   float64
	Now      float64
	Reason   string
}

func (e *InvalidAssignment) Error() string {
	return fmt.Sprintf("invalid assignment of task %d to %s at %g (now %g): %s",
		e.TaskID, e.Resource, e.Moment, e.Now, e.Reason)
}

// PlannerFailure wraps an error returned, or a panic raised, by a planner
// during Assign. Fatal to the replication; other replications are unaffected.
type PlannerFailure struct {
	Err error
}

func (e *PlannerFailure) Error() string {
	return "planner failure: " + e.Err.Error()
}

func (e *PlannerFailure) Unwrap() error {
	return e.Err
}

// ConfigurationError reports invalid collaborator wiring. Raised eagerly at
// construction, before any simulation runs.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Reason)
}
