package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Config carries the per-replication engine parameters.
type Config struct {
	// Seed keys the partitioned RNG of this instance.
	Seed int64

	// Horizon is the simulated-time bound: no event with a later moment is
	// executed. +Inf runs until the event queue drains.
	Horizon float64
}

// Simulator is one isolated simulation instance: the event queue and clock,
// the authoritative case/task/resource state, and the wiring to the process
// adapter, planner and reporter. It is not safe for concurrent use;
// Replicate runs each instance on its own goroutine.
type Simulator struct {
	process  Process
	planner  Planner
	reporter Reporter

	queue   *EventQueue
	rng     *PartitionedRNG
	horizon float64

	// eagerPlan is set when the planner asks to be consulted on every event;
	// planRequested is set by handlers whose event changed the planning state.
	eagerPlan     bool
	planRequested bool

	nextCaseID CaseID
	nextTaskID TaskID

	resources     []Resource
	taskTypes     map[TaskType]bool
	pools         map[TaskType]map[Resource]bool
	resourceState map[Resource]ResourceState
	reserved      map[Resource]Assignment
	busy          map[Resource]Assignment

	unassigned    *taskQueue
	assigned      map[TaskID]Assignment
	assignedOrder []TaskID

	cases     map[CaseID]*Case
	busyCases []*Case

	createdTasks   int
	completedTasks int
	rejected       int
}

// NewSimulator wires one simulation instance and schedules its first
// arrival. Configuration problems (nil collaborators, malformed resource or
// pool declarations, bad horizon) surface here as ConfigurationError, before
// any event runs. A nil reporter is replaced with NopReporter.
func NewSimulator(process Process, planner Planner, reporter Reporter, cfg Config) (*Simulator, error) {
	if process == nil {
		return nil, &ConfigurationError{Component: "simulator", Reason: "process must not be nil"}
	}
	if planner == nil {
		return nil, &ConfigurationError{Component: "simulator", Reason: "planner must not be nil"}
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	if math.IsNaN(cfg.Horizon) || cfg.Horizon < 0 {
		return nil, &ConfigurationError{Component: "simulator", Reason: fmt.Sprintf("horizon %g must be non-negative", cfg.Horizon)}
	}

	s := &Simulator{
		process:       process,
		planner:       planner,
		reporter:      reporter,
		queue:         NewEventQueue(),
		rng:           NewPartitionedRNG(SimulationKey(cfg.Seed)),
		horizon:       cfg.Horizon,
		taskTypes:     make(map[TaskType]bool),
		pools:         make(map[TaskType]map[Resource]bool),
		resourceState: make(map[Resource]ResourceState),
		reserved:      make(map[Resource]Assignment),
		busy:          make(map[Resource]Assignment),
		unassigned:    newTaskQueue(),
		assigned:      make(map[TaskID]Assignment),
		cases:         make(map[CaseID]*Case),
	}

	if ep, ok := planner.(EagerPlanner); ok && ep.PlanEveryEvent() {
		s.eagerPlan = true
	}

	if err := s.validateProcess(); err != nil {
		return nil, err
	}

	for _, r := range s.resources {
		s.resourceState[r] = ResourceAvailable
	}

	// First arrival; +Inf means the process generates no cases at all.
	iat := process.SampleInterarrival(s.rng.ForSubsystem(SubsystemArrival))
	if !math.IsInf(iat, 1) {
		if err := s.queue.Schedule(NewCaseArrivalEvent(iat)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// validateProcess checks the static process declarations eagerly.
func (s *Simulator) validateProcess() error {
	confErr := func(format string, args ...interface{}) error {
		return &ConfigurationError{Component: "process", Reason: fmt.Sprintf(format, args...)}
	}

	s.resources = s.process.Resources()
	if len(s.resources) == 0 {
		return confErr("no resources declared")
	}
	seen := make(map[Resource]bool, len(s.resources))
	for _, r := range s.resources {
		if r == "" {
			return confErr("empty resource label")
		}
		if seen[r] {
			return confErr("duplicate resource %q", r)
		}
		seen[r] = true
	}

	types := s.process.TaskTypes()
	if len(types) == 0 {
		return confErr("no task types declared")
	}
	for _, tt := range types {
		if tt == "" {
			return confErr("empty task type label")
		}
		if s.taskTypes[tt] {
			return confErr("duplicate task type %q", tt)
		}
		s.taskTypes[tt] = true

		pool := s.process.ResourcePool(tt)
		if len(pool) == 0 {
			return confErr("task type %q has no authorized resources", tt)
		}
		members := make(map[Resource]bool, len(pool))
		for _, r := range pool {
			if !seen[r] {
				return confErr("pool of %q contains undeclared resource %q", tt, r)
			}
			if members[r] {
				return confErr("pool of %q lists resource %q twice", tt, r)
			}
			members[r] = true
		}
		s.pools[tt] = members
	}
	return nil
}

// Now returns the current simulated time of this instance.
func (s *Simulator) Now() float64 {
	return s.queue.Now()
}

// Run executes the event loop until the queue drains or the next event lies
// beyond the horizon. Fatal errors (CausalityViolation, PlannerFailure)
// abort the run and are returned; the instance must not be reused after an
// error.
func (s *Simulator) Run() error {
	for {
		ev, ok := s.queue.Peek()
		if !ok {
			break
		}
		if ev.Moment() > s.horizon {
			break
		}
		ev, _ = s.queue.Next()

		logrus.Debugf("t=%.4f %s seq=%d", ev.Moment(), ev.Type(), ev.Seq())

		s.planRequested = false
		if err := ev.Execute(s); err != nil {
			return err
		}
		if s.planRequested || (s.eagerPlan && ev.Type() != EventPlan) {
			if err := s.schedulePlan(); err != nil {
				return err
			}
		}
	}
	return nil
}

// schedulePlan enqueues a planner consultation at the current moment,
// recording the state counts observed now for the reporter.
func (s *Simulator) schedulePlan() error {
	return s.queue.Schedule(NewPlanEvent(s.queue.Now(), s.unassigned.len(), s.availableCount()))
}

func (s *Simulator) availableCount() int {
	n := 0
	for _, st := range s.resourceState {
		if st == ResourceAvailable {
			n++
		}
	}
	return n
}

func (s *Simulator) authorized(tt TaskType, r Resource) bool {
	return s.pools[tt][r]
}
