package process

import (
	"fmt"
	"math/rand"

	"github.com/bpsim/bpsim/sim"
)

const (
	imbalancedTaskType    sim.TaskType = "T"
	imbalancedMeanService              = 18.0
	imbalancedMeanArrival              = 10.0
)

// Imbalanced models two resources with asymmetric speed. Every task names
// the resource that serves it fastest in its payload, drawn uniformly; the
// optimal resource works at mean (1-spread/2)*18, the other at
// (1+spread/2)*18. A planner that honors the payload label outperforms one
// that ignores it, increasingly so with larger spread.
type Imbalanced struct {
	spread    float64
	resources []sim.Resource
}

// NewImbalanced builds the two-resource process. Spread must lie in [0, 2):
// zero makes the resources identical, values toward two make the slow side
// arbitrarily slow while keeping both means positive.
func NewImbalanced(spread float64) (*Imbalanced, error) {
	if spread < 0 || spread >= 2 {
		return nil, &sim.ConfigurationError{Component: "process.Imbalanced", Reason: fmt.Sprintf("spread %g must be in [0, 2)", spread)}
	}
	return &Imbalanced{
		spread:    spread,
		resources: []sim.Resource{"R1", "R2"},
	}, nil
}

func (p *Imbalanced) Resources() []sim.Resource {
	return append([]sim.Resource(nil), p.resources...)
}

func (p *Imbalanced) TaskTypes() []sim.TaskType {
	return []sim.TaskType{imbalancedTaskType}
}

func (p *Imbalanced) ResourcePool(tt sim.TaskType) []sim.Resource {
	if tt != imbalancedTaskType {
		return nil
	}
	return p.Resources()
}

func (p *Imbalanced) SampleInterarrival(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * imbalancedMeanArrival
}

func (p *Imbalanced) SampleInitialTaskType(_ *rand.Rand) sim.TaskType {
	return imbalancedTaskType
}

func (p *Imbalanced) SampleNextTaskTypes(_ *rand.Rand, _ *sim.Task) []sim.TaskType {
	return nil
}

func (p *Imbalanced) SampleProcessingTime(rng *rand.Rand, r sim.Resource, t *sim.Task) float64 {
	mean := (1 + p.spread/2) * imbalancedMeanService
	if optimal, ok := t.Data().Label(sim.OptimalResourceKey); ok && sim.Resource(optimal) == r {
		mean = (1 - p.spread/2) * imbalancedMeanService
	}
	return rng.ExpFloat64() * mean
}

func (p *Imbalanced) SampleData(rng *rand.Rand, _ sim.TaskType) sim.TaskData {
	optimal := p.resources[rng.Intn(len(p.resources))]
	return sim.TaskData{Labels: map[string]string{sim.OptimalResourceKey: string(optimal)}}
}

// Spread returns the configured performance spread.
func (p *Imbalanced) Spread() float64 {
	return p.spread
}

// MeanService returns the mean processing time on the optimal and the other
// resource.
func (p *Imbalanced) MeanService() (optimal, other float64) {
	return (1 - p.spread/2) * imbalancedMeanService, (1 + p.spread/2) * imbalancedMeanService
}
