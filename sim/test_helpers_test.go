package sim

import (
	"math"
	"math/rand"
)

// stubProcess is a fully scripted process for engine tests: interarrival
// times come from a finite script (exhausted means no further arrivals),
// processing times are constants per (type, resource), routing is a fixed
// successor table. No randomness is consumed, so traces are exact.
type stubProcess struct {
	resources  []Resource
	taskTypes  []TaskType
	pools      map[TaskType][]Resource
	initial    TaskType
	successors map[TaskType][]TaskType

	arrivals   []float64
	arrivalIdx int

	procTime map[TaskType]map[Resource]float64
	labels   map[TaskType]map[string]string
	numbers  map[TaskType]map[string]float64
}

// singleStub builds the minimal process: one resource R1, one task type T
// with unit processing time, arrivals per the given interarrival script.
func singleStub(arrivals ...float64) *stubProcess {
	return &stubProcess{
		resources: []Resource{"R1"},
		taskTypes: []TaskType{"T"},
		pools:     map[TaskType][]Resource{"T": {"R1"}},
		initial:   "T",
		arrivals:  arrivals,
		procTime:  map[TaskType]map[Resource]float64{"T": {"R1": 1.0}},
	}
}

func (p *stubProcess) Resources() []Resource { return p.resources }

func (p *stubProcess) TaskTypes() []TaskType { return p.taskTypes }

func (p *stubProcess) ResourcePool(tt TaskType) []Resource { return p.pools[tt] }

func (p *stubProcess) SampleInterarrival(_ *rand.Rand) float64 {
	if p.arrivalIdx >= len(p.arrivals) {
		return math.Inf(1)
	}
	v := p.arrivals[p.arrivalIdx]
	p.arrivalIdx++
	return v
}

func (p *stubProcess) SampleInitialTaskType(_ *rand.Rand) TaskType { return p.initial }

func (p *stubProcess) SampleNextTaskTypes(_ *rand.Rand, t *Task) []TaskType {
	return p.successors[t.Type()]
}

func (p *stubProcess) SampleProcessingTime(_ *rand.Rand, r Resource, t *Task) float64 {
	if m, ok := p.procTime[t.Type()]; ok {
		if v, ok := m[r]; ok {
			return v
		}
	}
	return 1.0
}

func (p *stubProcess) SampleData(_ *rand.Rand, tt TaskType) TaskData {
	return TaskData{Labels: p.labels[tt], Numbers: p.numbers[tt]}
}

// assignFirst pairs the first unassigned task with the first available
// resource at the current moment, one triple per invocation. Pool
// authorization is not checked; tests that need it use their own closure.
func assignFirst(snap *Snapshot) ([]Assignment, error) {
	if len(snap.UnassignedTasks) == 0 || len(snap.AvailableResources) == 0 {
		return nil, nil
	}
	return []Assignment{{
		Task:     snap.UnassignedTasks[0],
		Resource: snap.AvailableResources[0],
		Moment:   snap.Now,
	}}, nil
}

// assignNothing defers every task.
func assignNothing(*Snapshot) ([]Assignment, error) { return nil, nil }

// eagerStub wraps a planner function and opts into planning on every event.
type eagerStub struct {
	inner PlannerFunc
}

func (e eagerStub) Assign(snap *Snapshot) ([]Assignment, error) { return e.inner(snap) }

func (e eagerStub) PlanEveryEvent() bool { return true }

// countingPlanner counts Assign invocations around an inner function.
type countingPlanner struct {
	calls int
	inner PlannerFunc
}

func (c *countingPlanner) Assign(snap *Snapshot) ([]Assignment, error) {
	c.calls++
	return c.inner(snap)
}

// traceKinds projects a trace onto its record kinds, in order.
func traceKinds(records []TraceRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Kind
	}
	return out
}
