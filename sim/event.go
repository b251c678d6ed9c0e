package sim

// EventType identifies the kind of a simulation event.
type EventType string

const (
	EventTaskComplete EventType = "TaskComplete"
	EventCaseArrival  EventType = "CaseArrival"
	EventTaskStart    EventType = "TaskStart"
	EventPlan         EventType = "Plan"
)

// EventTypePriority defines ordering for simultaneous events.
// Lower values are processed first: completions free resources and arrivals
// add work before any planning at the same moment, and plan events run last
// so a single invocation sees the settled state.
var EventTypePriority = map[EventType]int{
	EventTaskComplete: 1,
	EventCaseArrival:  2,
	EventTaskStart:    3,
	EventPlan:         4,
}

// Event is a scheduled state change. Events are transient: popped once,
// executed, discarded. The unexported stamp method closes the set of event
// types to this package; the lifecycle owns every transition.
type Event interface {
	Moment() float64
	Seq() uint64
	Type() EventType
	Execute(s *Simulator) error

	stamp(seq uint64)
}

// BaseEvent provides common event fields. The sequence number is assigned by
// the event queue at scheduling time and breaks remaining ordering ties.
type BaseEvent struct {
	moment    float64
	seq       uint64
	eventType EventType
}

func newBaseEvent(moment float64, eventType EventType) BaseEvent {
	return BaseEvent{moment: moment, eventType: eventType}
}

func (e *BaseEvent) Moment() float64 { return e.moment }

func (e *BaseEvent) Seq() uint64 { return e.seq }

func (e *BaseEvent) Type() EventType { return e.eventType }

func (e *BaseEvent) stamp(seq uint64) { e.seq = seq }

// CaseArrivalEvent marks the arrival of the next case. The case and its
// initial task are materialized by the handler, not carried on the event.
type CaseArrivalEvent struct {
	BaseEvent
}

func NewCaseArrivalEvent(moment float64) *CaseArrivalEvent {
	return &CaseArrivalEvent{BaseEvent: newBaseEvent(moment, EventCaseArrival)}
}

func (e *CaseArrivalEvent) Execute(s *Simulator) error {
	return s.handleCaseArrival(e)
}

// TaskStartEvent marks the moment a reserved resource begins its task.
type TaskStartEvent struct {
	BaseEvent
	Task     *Task
	Resource Resource
}

func NewTaskStartEvent(moment float64, task *Task, resource Resource) *TaskStartEvent {
	return &TaskStartEvent{
		BaseEvent: newBaseEvent(moment, EventTaskStart),
		Task:      task,
		Resource:  resource,
	}
}

func (e *TaskStartEvent) Execute(s *Simulator) error {
	return s.handleTaskStart(e)
}

// TaskCompleteEvent marks a task finishing on its resource.
type TaskCompleteEvent struct {
	BaseEvent
	Task     *Task
	Resource Resource
}

func NewTaskCompleteEvent(moment float64, task *Task, resource Resource) *TaskCompleteEvent {
	return &TaskCompleteEvent{
		BaseEvent: newBaseEvent(moment, EventTaskComplete),
		Task:      task,
		Resource:  resource,
	}
}

func (e *TaskCompleteEvent) Execute(s *Simulator) error {
	return s.handleTaskComplete(e)
}

// PlanEvent triggers a planner consultation. Unassigned and Available record
// the state observed when the event was scheduled; they feed the reporter's
// plan statistics, not the planning decision itself.
type PlanEvent struct {
	BaseEvent
	Unassigned int
	Available  int
}

func NewPlanEvent(moment float64, unassigned, available int) *PlanEvent {
	return &PlanEvent{
		BaseEvent:  newBaseEvent(moment, EventPlan),
		Unassigned: unassigned,
		Available:  available,
	}
}

func (e *PlanEvent) Execute(s *Simulator) error {
	return s.handlePlan(e)
}
