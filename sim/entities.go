// Case, Task and Resource entities and their state machines.
//
// The lifecycle code in this package is the sole mutator of entity state:
// the mutable fields are unexported, so planners and reporters in other
// packages can only observe entities through the read accessors.

package sim

import "fmt"

// Identity types
type CaseID int64
type TaskID int64
type TaskType string
type Resource string

// TaskState is the lifecycle state of a task. States only advance forward
// through unassigned → assigned → started → completed; a task never regresses.
type TaskState string

const (
	TaskUnassigned TaskState = "unassigned"
	TaskAssigned   TaskState = "assigned"
	TaskStarted    TaskState = "started"
	TaskCompleted  TaskState = "completed"
)

// ResourceState is the availability state of a resource. A resource is
// reserved or busy for at most one task at a time.
type ResourceState string

const (
	ResourceAvailable ResourceState = "available"
	ResourceReserved  ResourceState = "reserved"
	ResourceBusy      ResourceState = "busy"
)

// OptimalResourceKey is the payload label under which process adapters record
// the resource expected to perform a task fastest. Matching planners and
// predicters read it; the engine itself never does.
const OptimalResourceKey = "optimal_resource"

// TaskData is the process-defined payload attached to a task when it is
// created. Labels hold categorical attributes (for example a preferred
// resource), Numbers hold numeric ones. The adapter builds the payload once
// in SampleData; afterwards it must be treated as read-only.
type TaskData struct {
	Labels  map[string]string  `yaml:"labels"`
	Numbers map[string]float64 `yaml:"numbers"`
}

// Label returns the named label. Safe on an empty payload.
func (d TaskData) Label(key string) (string, bool) {
	v, ok := d.Labels[key]
	return v, ok
}

// Number returns the named numeric attribute. Safe on an empty payload.
func (d TaskData) Number(key string) (float64, bool) {
	v, ok := d.Numbers[key]
	return v, ok
}

// Case is one instance of the business process: it arrives, spawns one
// initial task, possibly grows successor tasks as work completes, and is
// complete once every task generated for it has completed and the last
// completion produced no successors.
type Case struct {
	id      CaseID
	arrival float64

	tasks     []*Task
	openTasks int

	done       bool
	completion float64
}

func newCase(id CaseID, arrival float64) *Case {
	return &Case{id: id, arrival: arrival}
}

func (c *Case) ID() CaseID { return c.id }

// ArrivalTime is the simulated moment the case arrived.
func (c *Case) ArrivalTime() float64 { return c.arrival }

// Tasks returns the tasks generated for this case so far, in creation order.
// The returned slice is a copy.
func (c *Case) Tasks() []*Task {
	out := make([]*Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Completed reports whether the case has finished all of its work.
func (c *Case) Completed() bool { return c.done }

// CompletionTime returns the moment the case completed, if it has.
func (c *Case) CompletionTime() (float64, bool) {
	if !c.done {
		return 0, false
	}
	return c.completion, true
}

func (c *Case) addTask(t *Task) {
	c.tasks = append(c.tasks, t)
	c.openTasks++
}

func (c *Case) taskDone() {
	if c.openTasks <= 0 {
		panic(fmt.Sprintf("case %d: task completed with no open tasks", c.id))
	}
	c.openTasks--
}

func (c *Case) complete(now float64) {
	if c.done {
		panic(fmt.Sprintf("case %d: completed twice", c.id))
	}
	c.done = true
	c.completion = now
}

// Task is one unit of work within a case. Identity (id, case, type, payload)
// is fixed at creation; the mutable lifecycle fields advance only through the
// event handlers in this package.
type Task struct {
	id       TaskID
	kase     *Case
	taskType TaskType
	data     TaskData

	// Realized processing-time draw per declared resource, sampled once at
	// creation. Keeps the stochastic input independent of planner decisions
	// and gives oracle predicters something to read.
	processingTimes map[Resource]float64

	state          TaskState
	resource       Resource
	scheduledStart float64
	startedAt      float64
	completedAt    float64
}

func newTask(id TaskID, kase *Case, taskType TaskType, data TaskData) *Task {
	return &Task{
		id:              id,
		kase:            kase,
		taskType:        taskType,
		data:            data,
		processingTimes: make(map[Resource]float64),
		state:           TaskUnassigned,
	}
}

func (t *Task) ID() TaskID       { return t.id }
func (t *Task) CaseID() CaseID   { return t.kase.id }
func (t *Task) Case() *Case      { return t.kase }
func (t *Task) Type() TaskType   { return t.taskType }
func (t *Task) Data() TaskData   { return t.data }
func (t *Task) State() TaskState { return t.state }

// AssignedResource returns the resource this task was committed to, once the
// task has left the unassigned state.
func (t *Task) AssignedResource() (Resource, bool) {
	if t.state == TaskUnassigned {
		return "", false
	}
	return t.resource, true
}

// ScheduledStart returns the moment the assignment was committed for.
func (t *Task) ScheduledStart() (float64, bool) {
	if t.state == TaskUnassigned {
		return 0, false
	}
	return t.scheduledStart, true
}

// StartedAt returns the moment the resource actually began the task.
func (t *Task) StartedAt() (float64, bool) {
	if t.state != TaskStarted && t.state != TaskCompleted {
		return 0, false
	}
	return t.startedAt, true
}

// CompletedAt returns the moment the task completed.
func (t *Task) CompletedAt() (float64, bool) {
	if t.state != TaskCompleted {
		return 0, false
	}
	return t.completedAt, true
}

// ProcessingTime returns the realized processing duration of this task on the
// given resource, drawn when the task was created. Consulting it from a
// planner amounts to oracle knowledge of the future; the Perfect predicter
// does exactly that.
func (t *Task) ProcessingTime(r Resource) (float64, bool) {
	pt, ok := t.processingTimes[r]
	return pt, ok
}

func (t *Task) String() string {
	return fmt.Sprintf("%s(%d)#%d", t.taskType, t.kase.id, t.id)
}

func (t *Task) setProcessingTime(r Resource, d float64) {
	t.processingTimes[r] = d
}

func (t *Task) markAssigned(r Resource, moment float64) {
	if t.state != TaskUnassigned {
		panic(fmt.Sprintf("task %s: assigned from state %s", t, t.state))
	}
	t.state = TaskAssigned
	t.resource = r
	t.scheduledStart = moment
}

func (t *Task) markStarted(now float64) {
	if t.state != TaskAssigned {
		panic(fmt.Sprintf("task %s: started from state %s", t, t.state))
	}
	t.state = TaskStarted
	t.startedAt = now
}

func (t *Task) markCompleted(now float64) {
	if t.state != TaskStarted {
		panic(fmt.Sprintf("task %s: completed from state %s", t, t.state))
	}
	t.state = TaskCompleted
	t.completedAt = now
}
