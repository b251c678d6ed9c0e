package process

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/bpsim/bpsim/sim"
)

// SchedulingPayloadKey is the payload number holding a scheduling task's
// duration.
const SchedulingPayloadKey = "P"

// Scheduling is the stochastic single-machine scheduling problem: n cases,
// one task each, all arriving at time zero, competing for one resource. The
// processing time equals the payload number P drawn uniformly from [1, 5),
// so ordering planners (shortest processing time first) measurably beat
// arrival-order ones.
//
// The adapter counts the cases it has generated, so one instance serves
// exactly one replication; Replicate's process factory provides that.
type Scheduling struct {
	total     int
	generated int
}

// NewScheduling builds a scheduling batch of n cases.
func NewScheduling(n int) (*Scheduling, error) {
	if n < 1 {
		return nil, &sim.ConfigurationError{Component: "process.Scheduling", Reason: fmt.Sprintf("case count %d must be at least 1", n)}
	}
	return &Scheduling{total: n}, nil
}

func (p *Scheduling) Resources() []sim.Resource {
	return []sim.Resource{"R"}
}

func (p *Scheduling) TaskTypes() []sim.TaskType {
	return []sim.TaskType{"T"}
}

func (p *Scheduling) ResourcePool(tt sim.TaskType) []sim.Resource {
	if tt != "T" {
		return nil
	}
	return p.Resources()
}

// SampleInterarrival returns zero while the batch is incomplete and +Inf
// afterwards, which ends the arrival stream.
func (p *Scheduling) SampleInterarrival(_ *rand.Rand) float64 {
	if p.generated >= p.total {
		return math.Inf(1)
	}
	p.generated++
	return 0
}

func (p *Scheduling) SampleInitialTaskType(_ *rand.Rand) sim.TaskType {
	return "T"
}

func (p *Scheduling) SampleNextTaskTypes(_ *rand.Rand, _ *sim.Task) []sim.TaskType {
	return nil
}

// SampleProcessingTime returns the payload duration untouched; the draw
// happened in SampleData.
func (p *Scheduling) SampleProcessingTime(_ *rand.Rand, _ sim.Resource, t *sim.Task) float64 {
	d, ok := t.Data().Number(SchedulingPayloadKey)
	if !ok {
		panic(fmt.Sprintf("scheduling task %s has no duration payload", t))
	}
	return d
}

func (p *Scheduling) SampleData(rng *rand.Rand, _ sim.TaskType) sim.TaskData {
	return sim.TaskData{Numbers: map[string]float64{SchedulingPayloadKey: 1 + 4*rng.Float64()}}
}
