// Package predict provides the built-in predicters consumed by deferring
// planners.
package predict

import (
	"fmt"

	"github.com/bpsim/bpsim/sim"
)

// Imbalanced estimates processing times from distribution means alone:
// (1-spread/2)*mean on the resource the task's payload names as optimal,
// (1+spread/2)*mean on any other. Service is taken to be memoryless, so the
// remaining-time estimate of a running task equals the full estimate no
// matter how long it has been running.
type Imbalanced struct {
	mean   float64
	spread float64
}

// NewImbalanced returns a mean-based predicter for processes whose payload
// carries an optimal-resource label. Spread must lie in [0, 2).
func NewImbalanced(mean, spread float64) (*Imbalanced, error) {
	if mean <= 0 {
		return nil, &sim.ConfigurationError{Component: "predict.Imbalanced", Reason: fmt.Sprintf("mean %g must be positive", mean)}
	}
	if spread < 0 || spread >= 2 {
		return nil, &sim.ConfigurationError{Component: "predict.Imbalanced", Reason: fmt.Sprintf("spread %g must be in [0, 2)", spread)}
	}
	return &Imbalanced{mean: mean, spread: spread}, nil
}

func (p *Imbalanced) PredictProcessingTime(_ sim.Process, r sim.Resource, t *sim.Task) float64 {
	if optimal, ok := t.Data().Label(sim.OptimalResourceKey); ok && sim.Resource(optimal) == r {
		return (1 - p.spread/2) * p.mean
	}
	return (1 + p.spread/2) * p.mean
}

func (p *Imbalanced) PredictRemainingProcessingTime(proc sim.Process, r sim.Resource, t *sim.Task, _, _ float64) float64 {
	return p.PredictProcessingTime(proc, r, t)
}
