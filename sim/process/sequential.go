package process

import (
	"math/rand"

	"github.com/bpsim/bpsim/sim"
)

const (
	sequentialMeanService = 18.0
	sequentialMeanArrival = 20.0
)

// Sequential chains two task types: every case performs T1 and then T2.
// Either resource can work either type, but R1 is the home resource of T1
// and R2 of T2; the payload label records the home resource, which works at
// mean 9 against 27 for the other. Deferring planners shine here: waiting
// briefly for the home resource often beats starting on the slow one.
type Sequential struct {
	resources []sim.Resource
	taskTypes []sim.TaskType
}

// NewSequential builds the two-stage chained process.
func NewSequential() *Sequential {
	return &Sequential{
		resources: []sim.Resource{"R1", "R2"},
		taskTypes: []sim.TaskType{"T1", "T2"},
	}
}

func (p *Sequential) Resources() []sim.Resource {
	return append([]sim.Resource(nil), p.resources...)
}

func (p *Sequential) TaskTypes() []sim.TaskType {
	return append([]sim.TaskType(nil), p.taskTypes...)
}

func (p *Sequential) ResourcePool(tt sim.TaskType) []sim.Resource {
	if tt != "T1" && tt != "T2" {
		return nil
	}
	return p.Resources()
}

func (p *Sequential) SampleInterarrival(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * sequentialMeanArrival
}

func (p *Sequential) SampleInitialTaskType(_ *rand.Rand) sim.TaskType {
	return "T1"
}

func (p *Sequential) SampleNextTaskTypes(_ *rand.Rand, t *sim.Task) []sim.TaskType {
	if t.Type() == "T1" {
		return []sim.TaskType{"T2"}
	}
	return nil
}

func (p *Sequential) SampleProcessingTime(rng *rand.Rand, r sim.Resource, t *sim.Task) float64 {
	mean := 1.5 * sequentialMeanService
	if optimal, ok := t.Data().Label(sim.OptimalResourceKey); ok && sim.Resource(optimal) == r {
		mean = 0.5 * sequentialMeanService
	}
	return rng.ExpFloat64() * mean
}

// SampleData names the home resource of the task type: R1 for T1, R2 for T2.
func (p *Sequential) SampleData(_ *rand.Rand, tt sim.TaskType) sim.TaskData {
	optimal := "R" + string(tt[1:])
	return sim.TaskData{Labels: map[string]string{sim.OptimalResourceKey: optimal}}
}
