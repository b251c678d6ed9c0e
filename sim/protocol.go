package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// handlePlan consults the planner when there is plannable work and applies
// whatever assignments it returns. Rejected triples are reported and
// skipped; planner errors and panics abort the run as PlannerFailure.
func (s *Simulator) handlePlan(e *PlanEvent) error {
	now := s.queue.Now()
	s.reporter.PlanTriggered(e.Unassigned, e.Available, now)

	// Nothing to match means the planner is not consulted at all.
	if s.unassigned.len() == 0 || s.availableCount() == 0 {
		return nil
	}

	assignments, err := s.invokePlanner()
	if err != nil {
		return err
	}

	for _, a := range assignments {
		err := s.CommitAssignment(a.Task, a.Resource, a.Moment)
		if err == nil {
			continue
		}
		var invalid *InvalidAssignment
		if errors.As(err, &invalid) {
			s.rejected++
			logrus.Warnf("rejected assignment: %v", invalid)
			s.reporter.AssignmentRejected(invalid, now)
			continue
		}
		return err
	}
	return nil
}

// invokePlanner builds the state snapshot and calls Assign, converting both
// returned errors and panics into PlannerFailure.
func (s *Simulator) invokePlanner() (assignments []Assignment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PlannerFailure{Err: fmt.Errorf("panic in Assign: %v", r)}
		}
	}()

	assignments, assignErr := s.planner.Assign(s.snapshot())
	if assignErr != nil {
		return nil, &PlannerFailure{Err: assignErr}
	}
	return assignments, nil
}
