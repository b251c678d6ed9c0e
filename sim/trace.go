package sim

// TraceRecord is one observed lifecycle step. Fields that do not apply to a
// kind keep their zero value.
type TraceRecord struct {
	Moment   float64
	Kind     string
	Case     CaseID
	Task     TaskID
	Resource Resource
}

// Trace record kinds.
const (
	TraceCaseArrival  = "case_arrival"
	TraceTaskActivate = "task_activate"
	TraceTaskAssign   = "task_assign"
	TraceTaskStart    = "task_start"
	TraceTaskComplete = "task_complete"
	TraceCaseComplete = "case_complete"
	TracePlan         = "plan"
	TraceRejected     = "rejected"
)

// TraceReporter records the full ordered lifecycle sequence of a
// replication. Two runs are behaviorally identical exactly when their
// traces are equal, which makes it the tool for replay and determinism
// tests.
type TraceReporter struct {
	Records []TraceRecord
}

func (tr *TraceReporter) append(rec TraceRecord) {
	tr.Records = append(tr.Records, rec)
}

func (tr *TraceReporter) CaseArrived(c *Case, now float64) {
	tr.append(TraceRecord{Moment: now, Kind: TraceCaseArrival, Case: c.ID()})
}

func (tr *TraceReporter) TaskActivated(t *Task, now float64) {
	tr.append(TraceRecord{Moment: now, Kind: TraceTaskActivate, Case: t.CaseID(), Task: t.ID()})
}

func (tr *TraceReporter) TaskAssigned(t *Task, r Resource, _, now float64) {
	tr.append(TraceRecord{Moment: now, Kind: TraceTaskAssign, Case: t.CaseID(), Task: t.ID(), Resource: r})
}

func (tr *TraceReporter) TaskStarted(t *Task, r Resource, now float64) {
	tr.append(TraceRecord{Moment: now, Kind: TraceTaskStart, Case: t.CaseID(), Task: t.ID(), Resource: r})
}

func (tr *TraceReporter) TaskCompleted(t *Task, r Resource, now float64) {
	tr.append(TraceRecord{Moment: now, Kind: TraceTaskComplete, Case: t.CaseID(), Task: t.ID(), Resource: r})
}

func (tr *TraceReporter) CaseCompleted(c *Case, now float64) {
	tr.append(TraceRecord{Moment: now, Kind: TraceCaseComplete, Case: c.ID()})
}

func (tr *TraceReporter) PlanTriggered(_, _ int, now float64) {
	tr.append(TraceRecord{Moment: now, Kind: TracePlan})
}

func (tr *TraceReporter) AssignmentRejected(reason *InvalidAssignment, now float64) {
	tr.append(TraceRecord{Moment: now, Kind: TraceRejected, Task: reason.TaskID, Resource: reason.Resource})
}

func (tr *TraceReporter) Summary() Summary {
	return Summary{"nr trace records": float64(len(tr.Records))}
}
