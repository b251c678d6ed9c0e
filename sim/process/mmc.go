package process

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/bpsim/bpsim/sim"
)

const (
	mmcTaskType    sim.TaskType = "T"
	mmcMeanService              = 9.0
)

// MMc is the M/M/c benchmark process: Poisson arrivals, exponentially
// distributed service times and c interchangeable resources working a single
// task type. Its closed-form expected waiting time makes it the calibration
// target for the engine.
type MMc struct {
	servers     int
	arrivalRate float64
	resources   []sim.Resource
}

// NewMMc builds an M/M/c process with resources R1..Rc. The arrival rate is
// 0.1 times max(c-1, 1) against a mean service time of 9, which keeps the
// utilization below one for every c.
func NewMMc(c int) (*MMc, error) {
	if c < 1 {
		return nil, &sim.ConfigurationError{Component: "process.MMc", Reason: fmt.Sprintf("server count %d must be at least 1", c)}
	}
	resources := make([]sim.Resource, c)
	for i := range resources {
		resources[i] = sim.Resource(fmt.Sprintf("R%d", i+1))
	}
	rate := 0.1 * math.Max(float64(c-1), 1)
	return &MMc{servers: c, arrivalRate: rate, resources: resources}, nil
}

func (m *MMc) Resources() []sim.Resource {
	return append([]sim.Resource(nil), m.resources...)
}

func (m *MMc) TaskTypes() []sim.TaskType {
	return []sim.TaskType{mmcTaskType}
}

func (m *MMc) ResourcePool(tt sim.TaskType) []sim.Resource {
	if tt != mmcTaskType {
		return nil
	}
	return m.Resources()
}

func (m *MMc) SampleInterarrival(rng *rand.Rand) float64 {
	return rng.ExpFloat64() / m.arrivalRate
}

func (m *MMc) SampleInitialTaskType(_ *rand.Rand) sim.TaskType {
	return mmcTaskType
}

func (m *MMc) SampleNextTaskTypes(_ *rand.Rand, _ *sim.Task) []sim.TaskType {
	return nil
}

func (m *MMc) SampleProcessingTime(rng *rand.Rand, _ sim.Resource, _ *sim.Task) float64 {
	return rng.ExpFloat64() * mmcMeanService
}

func (m *MMc) SampleData(_ *rand.Rand, _ sim.TaskType) sim.TaskData {
	return sim.TaskData{}
}

// Utilization returns the offered load per server, rate * service / c.
func (m *MMc) Utilization() float64 {
	return m.arrivalRate * mmcMeanService / float64(m.servers)
}

// WaitingTimeAnalytical returns the exact expected waiting time of the
// M/M/c queue (Erlang-C). Simulated waiting times converge on it as the
// horizon grows.
func (m *MMc) WaitingTimeAnalytical() float64 {
	c := float64(m.servers)
	rho := m.Utilization()
	offered := m.arrivalRate * mmcMeanService // c * rho

	// Accumulate offered^k / k! for k < c; term ends at offered^(c-1)/(c-1)!.
	term := 1.0
	sum := 0.0
	for k := 0; k < m.servers; k++ {
		if k > 0 {
			term *= offered / float64(k)
		}
		sum += term
	}
	top := term * offered / c // offered^c / c!
	erlangC := top / (top + (1-rho)*sum)
	return erlangC * mmcMeanService / (c * (1 - rho))
}
