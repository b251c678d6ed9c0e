package predict

import "github.com/bpsim/bpsim/sim"

// Perfect is the oracle predicter: it reads the realized draw stored on the
// task at creation, so its estimates are exact and the remaining time of a
// running task is start + realized - now. It bounds what any learned
// predicter could achieve on the same planner.
type Perfect struct{}

// NewPerfect returns the oracle predicter.
func NewPerfect() *Perfect {
	return &Perfect{}
}

func (p *Perfect) PredictProcessingTime(_ sim.Process, r sim.Resource, t *sim.Task) float64 {
	pt, _ := t.ProcessingTime(r)
	return pt
}

func (p *Perfect) PredictRemainingProcessingTime(_ sim.Process, r sim.Resource, t *sim.Task, startTime, now float64) float64 {
	pt, _ := t.ProcessingTime(r)
	return startTime + pt - now
}
