package sim

// Predicter estimates processing durations. It is a capability planners may
// hold and consult; the engine never calls it directly. Implementations must
// be pure and stateless: estimates depend only on the arguments, never on
// retained simulation state.
type Predicter interface {
	// PredictProcessingTime estimates how long the resource will need for
	// the (not yet started) task.
	PredictProcessingTime(p Process, r Resource, t *Task) float64

	// PredictRemainingProcessingTime estimates how much longer the resource
	// needs for a task it started at startTime, as of now.
	PredictRemainingProcessingTime(p Process, r Resource, t *Task, startTime, now float64) float64
}

// NextTaskPredicter is the routing counterpart: it predicts which task type a
// case will continue with, given the current snapshot. Separate from
// Predicter because most predicters estimate durations only.
type NextTaskPredicter interface {
	PredictNextTaskType(p Process, snap *Snapshot) TaskType
}
