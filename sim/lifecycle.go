package sim

import (
	"fmt"
	"math"
)

// handleCaseArrival materializes the next case with its initial task and
// schedules the arrival after it.
func (s *Simulator) handleCaseArrival(e *CaseArrivalEvent) error {
	now := s.queue.Now()

	c := newCase(s.nextCaseID, now)
	s.nextCaseID++
	s.cases[c.id] = c
	s.busyCases = append(s.busyCases, c)
	s.reporter.CaseArrived(c, now)

	tt := s.process.SampleInitialTaskType(s.rng.ForSubsystem(SubsystemTaskType))
	s.activateTask(c, tt, now)

	// Next interarrival; +Inf ends the arrival stream.
	iat := s.process.SampleInterarrival(s.rng.ForSubsystem(SubsystemArrival))
	if !math.IsInf(iat, 1) {
		if err := s.queue.Schedule(NewCaseArrivalEvent(now + iat)); err != nil {
			return err
		}
	}

	s.planRequested = true
	return nil
}

// activateTask creates a task of the given type for the case, draws its
// payload and its processing time for every declared resource, and places it
// in the unassigned queue. All randomness a task will ever consume is drawn
// here, so the stream position never depends on planner choices.
func (s *Simulator) activateTask(c *Case, tt TaskType, now float64) *Task {
	if !s.taskTypes[tt] {
		panic(fmt.Sprintf("process returned undeclared task type %q", tt))
	}

	data := s.process.SampleData(s.rng.ForSubsystem(SubsystemData), tt)
	t := newTask(s.nextTaskID, c, tt, data)
	s.nextTaskID++

	procRNG := s.rng.ForSubsystem(SubsystemProcessing)
	for _, r := range s.resources {
		t.setProcessingTime(r, s.process.SampleProcessingTime(procRNG, r, t))
	}

	c.addTask(t)
	s.unassigned.enqueue(t)
	s.createdTasks++
	s.reporter.TaskActivated(t, now)
	return t
}

// handleTaskStart flips the reserved resource to busy and schedules the
// completion at now plus the realized processing time.
func (s *Simulator) handleTaskStart(e *TaskStartEvent) error {
	now := s.queue.Now()
	t, r := e.Task, e.Resource

	a, ok := s.reserved[r]
	if !ok || a.Task != t {
		panic(fmt.Sprintf("start of %s on %q without a matching reservation", t, r))
	}
	delete(s.reserved, r)
	s.resourceState[r] = ResourceBusy
	s.busy[r] = Assignment{Task: t, Resource: r, Moment: now}

	t.markStarted(now)
	s.reporter.TaskStarted(t, r, now)

	pt, ok := t.ProcessingTime(r)
	if !ok {
		panic(fmt.Sprintf("no processing time drawn for %s on %q", t, r))
	}
	return s.queue.Schedule(NewTaskCompleteEvent(now+pt, t, r))
}

// handleTaskComplete releases the resource, activates the successor tasks of
// the case and closes the case when none remain.
func (s *Simulator) handleTaskComplete(e *TaskCompleteEvent) error {
	now := s.queue.Now()
	t, r := e.Task, e.Resource

	a, ok := s.busy[r]
	if !ok || a.Task != t {
		panic(fmt.Sprintf("completion of %s on %q which is not busy with it", t, r))
	}
	delete(s.busy, r)
	s.resourceState[r] = ResourceAvailable

	t.markCompleted(now)
	s.completedTasks++
	s.removeAssigned(t.id)

	c := t.kase
	c.taskDone()
	s.reporter.TaskCompleted(t, r, now)

	for _, next := range s.process.SampleNextTaskTypes(s.rng.ForSubsystem(SubsystemTaskType), t) {
		s.activateTask(c, next, now)
	}

	if c.openTasks == 0 {
		c.complete(now)
		s.removeBusyCase(c)
		s.reporter.CaseCompleted(c, now)
	}

	s.planRequested = true
	return nil
}

// CommitAssignment applies one planner-issued (task, resource, moment)
// triple. Every precondition is checked against the current state; a
// violated one yields an InvalidAssignment describing the reason and leaves
// the state untouched. On success the task is bound, the resource reserved,
// and the start event scheduled.
func (s *Simulator) CommitAssignment(t *Task, r Resource, moment float64) error {
	now := s.queue.Now()
	reject := func(id TaskID, reason string) *InvalidAssignment {
		return &InvalidAssignment{TaskID: id, Resource: r, Moment: moment, Now: now, Reason: reason}
	}

	if t == nil {
		return reject(-1, "nil task")
	}
	if queued, ok := s.unassigned.get(t.id); !ok || queued != t {
		if t.state != TaskUnassigned {
			return reject(t.id, fmt.Sprintf("task is %s, not unassigned", t.state))
		}
		return reject(t.id, "task is not known to this simulation")
	}
	st, ok := s.resourceState[r]
	if !ok {
		return reject(t.id, "resource is not declared by the process")
	}
	if st != ResourceAvailable {
		return reject(t.id, fmt.Sprintf("resource is %s, not available", st))
	}
	if !s.authorized(t.taskType, r) {
		return reject(t.id, fmt.Sprintf("resource is not in the %q pool", t.taskType))
	}
	if math.IsNaN(moment) {
		return reject(t.id, "start moment is NaN")
	}
	if moment < now {
		return reject(t.id, fmt.Sprintf("start moment %g is before now %g", moment, now))
	}

	s.unassigned.remove(t.id)
	t.markAssigned(r, moment)
	a := Assignment{Task: t, Resource: r, Moment: moment}
	s.assigned[t.id] = a
	s.assignedOrder = append(s.assignedOrder, t.id)
	s.resourceState[r] = ResourceReserved
	s.reserved[r] = a

	s.reporter.TaskAssigned(t, r, moment, now)
	return s.queue.Schedule(NewTaskStartEvent(moment, t, r))
}

func (s *Simulator) removeAssigned(id TaskID) {
	delete(s.assigned, id)
	for i, other := range s.assignedOrder {
		if other == id {
			s.assignedOrder = append(s.assignedOrder[:i], s.assignedOrder[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("task %d missing from assignment order", id))
}

func (s *Simulator) removeBusyCase(c *Case) {
	for i, other := range s.busyCases {
		if other == c {
			s.busyCases = append(s.busyCases[:i], s.busyCases[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("case %d missing from busy cases", c.id))
}
