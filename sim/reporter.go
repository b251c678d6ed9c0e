package sim

// Summary is the flat metric map a reporter produces once its replication
// finished.
type Summary map[string]float64

// Reporter receives lifecycle notifications from the engine. All callbacks
// run on the replication's goroutine, in event order; implementations need
// no locking. The entities handed to a callback are live and keep evolving
// after it returns, so a reporter that needs a value later must copy it
// during the callback.
type Reporter interface {
	CaseArrived(c *Case, now float64)
	TaskActivated(t *Task, now float64)
	TaskAssigned(t *Task, r Resource, moment, now float64)
	TaskStarted(t *Task, r Resource, now float64)
	TaskCompleted(t *Task, r Resource, now float64)
	CaseCompleted(c *Case, now float64)
	PlanTriggered(unassigned, available int, now float64)
	AssignmentRejected(reason *InvalidAssignment, now float64)

	// Summary finalizes the replication's metrics.
	Summary() Summary
}

// NopReporter ignores every notification. Embed it to implement only the
// callbacks a reporter cares about.
type NopReporter struct{}

func (NopReporter) CaseArrived(*Case, float64)                      {}
func (NopReporter) TaskActivated(*Task, float64)                    {}
func (NopReporter) TaskAssigned(*Task, Resource, float64, float64)  {}
func (NopReporter) TaskStarted(*Task, Resource, float64)            {}
func (NopReporter) TaskCompleted(*Task, Resource, float64)          {}
func (NopReporter) CaseCompleted(*Case, float64)                    {}
func (NopReporter) PlanTriggered(int, int, float64)                 {}
func (NopReporter) AssignmentRejected(*InvalidAssignment, float64)  {}
func (NopReporter) Summary() Summary                                { return nil }

// StatsReporter accumulates the workload statistics of one replication.
//
// A task contributes to the waiting and processing averages iff it was
// activated at or after Warmup; a case contributes to the cycle time iff it
// arrived at or after Warmup. Plan events are counted unconditionally.
type StatsReporter struct {
	// Warmup is the moment before which activity is excluded from the task
	// and case statistics, so queues fill before measuring begins.
	Warmup float64

	activated map[TaskID]float64
	started   map[TaskID]float64

	nrTasks         int
	totalWaiting    float64
	totalProcessing float64

	planEvents       int
	tasksPlanned     int
	resourcesPlanned int

	completedCases int
	totalCycle     float64

	rejected int
}

// NewStatsReporter returns a reporter that excludes activity before warmup
// from the task and case statistics.
func NewStatsReporter(warmup float64) *StatsReporter {
	return &StatsReporter{
		Warmup:    warmup,
		activated: make(map[TaskID]float64),
		started:   make(map[TaskID]float64),
	}
}

func (sr *StatsReporter) CaseArrived(*Case, float64) {}

func (sr *StatsReporter) TaskActivated(t *Task, now float64) {
	sr.activated[t.ID()] = now
}

func (sr *StatsReporter) TaskAssigned(*Task, Resource, float64, float64) {}

func (sr *StatsReporter) TaskStarted(t *Task, _ Resource, now float64) {
	sr.started[t.ID()] = now
}

func (sr *StatsReporter) TaskCompleted(t *Task, _ Resource, now float64) {
	activated := sr.activated[t.ID()]
	started := sr.started[t.ID()]
	delete(sr.activated, t.ID())
	delete(sr.started, t.ID())

	if activated < sr.Warmup {
		return
	}
	sr.nrTasks++
	sr.totalWaiting += started - activated
	sr.totalProcessing += now - started
}

func (sr *StatsReporter) CaseCompleted(c *Case, now float64) {
	if c.ArrivalTime() < sr.Warmup {
		return
	}
	sr.completedCases++
	sr.totalCycle += now - c.ArrivalTime()
}

func (sr *StatsReporter) PlanTriggered(unassigned, available int, _ float64) {
	sr.planEvents++
	sr.tasksPlanned += unassigned
	sr.resourcesPlanned += available
}

func (sr *StatsReporter) AssignmentRejected(*InvalidAssignment, float64) {
	sr.rejected++
}

// Summary reports the accumulated metrics. Averages over an empty
// population are zero, not NaN.
func (sr *StatsReporter) Summary() Summary {
	out := Summary{
		"nr tasks":                     float64(sr.nrTasks),
		"avg waiting time":             0,
		"avg processing time":          0,
		"nr plan events":               float64(sr.planEvents),
		"avg tasks per plan event":     0,
		"avg resources per plan event": 0,
		"nr completed cases":           float64(sr.completedCases),
		"avg cycle time":               0,
		"nr rejected assignments":      float64(sr.rejected),
	}
	if sr.nrTasks > 0 {
		out["avg waiting time"] = sr.totalWaiting / float64(sr.nrTasks)
		out["avg processing time"] = sr.totalProcessing / float64(sr.nrTasks)
	}
	if sr.planEvents > 0 {
		out["avg tasks per plan event"] = float64(sr.tasksPlanned) / float64(sr.planEvents)
		out["avg resources per plan event"] = float64(sr.resourcesPlanned) / float64(sr.planEvents)
	}
	if sr.completedCases > 0 {
		out["avg cycle time"] = sr.totalCycle / float64(sr.completedCases)
	}
	return out
}
