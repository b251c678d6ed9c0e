package sim

import (
	"math"
	"testing"
)

func TestStatsReporter_WarmupGate(t *testing.T) {
	// GIVEN a reporter with warmup 10
	sr := NewStatsReporter(10)

	// Activity entirely before warmup: excluded from task and case stats.
	early := newTask(1, newCase(1, 5), "T", TaskData{})
	sr.TaskActivated(early, 5)
	sr.TaskStarted(early, "R1", 6)
	sr.TaskCompleted(early, "R1", 8)
	earlyCase := newCase(1, 5)
	sr.CaseCompleted(earlyCase, 9)

	// Activity at and after warmup: included. Waiting 2, processing 3.
	late := newTask(2, newCase(2, 12), "T", TaskData{})
	sr.TaskActivated(late, 10)
	sr.TaskStarted(late, "R1", 12)
	sr.TaskCompleted(late, "R1", 15)
	lateCase := newCase(2, 12)
	sr.CaseCompleted(lateCase, 20)

	// Plan events are counted unconditionally.
	sr.PlanTriggered(3, 2, 4)
	sr.PlanTriggered(1, 0, 11)
	sr.AssignmentRejected(&InvalidAssignment{}, 11)

	sum := sr.Summary()
	want := Summary{
		"nr tasks":                     1,
		"avg waiting time":             2,
		"avg processing time":          3,
		"nr plan events":               2,
		"avg tasks per plan event":     2,
		"avg resources per plan event": 1,
		"nr completed cases":           1,
		"avg cycle time":               8,
		"nr rejected assignments":      1,
	}
	for key, w := range want {
		if got := sum[key]; got != w {
			t.Errorf("%s = %g, want %g", key, got, w)
		}
	}
}

func TestStatsReporter_TaskActivatedExactlyAtWarmup_Included(t *testing.T) {
	sr := NewStatsReporter(10)
	task := newTask(1, newCase(1, 10), "T", TaskData{})
	sr.TaskActivated(task, 10)
	sr.TaskStarted(task, "R1", 10)
	sr.TaskCompleted(task, "R1", 11)

	if got := sr.Summary()["nr tasks"]; got != 1 {
		t.Errorf("nr tasks = %g, want 1 (activation at warmup counts)", got)
	}
}

func TestStatsReporter_EmptyRun_ZeroesNotNaN(t *testing.T) {
	sum := NewStatsReporter(0).Summary()

	for key, v := range sum {
		if math.IsNaN(v) {
			t.Errorf("%s = NaN, want 0", key)
		}
		if v != 0 {
			t.Errorf("%s = %g, want 0", key, v)
		}
	}
}

func TestStatsReporter_Summary_KeySet(t *testing.T) {
	sum := NewStatsReporter(0).Summary()

	want := []string{
		"nr tasks",
		"avg waiting time",
		"avg processing time",
		"nr plan events",
		"avg tasks per plan event",
		"avg resources per plan event",
		"nr completed cases",
		"avg cycle time",
		"nr rejected assignments",
	}
	if len(sum) != len(want) {
		t.Errorf("summary has %d keys, want %d", len(sum), len(want))
	}
	for _, key := range want {
		if _, ok := sum[key]; !ok {
			t.Errorf("summary missing key %q", key)
		}
	}
}

func TestNopReporter_ImplementsReporter(t *testing.T) {
	var r Reporter = NopReporter{}

	// Every callback must be safe to invoke with zero-value arguments.
	r.CaseArrived(nil, 0)
	r.TaskActivated(nil, 0)
	r.TaskAssigned(nil, "", 0, 0)
	r.TaskStarted(nil, "", 0)
	r.TaskCompleted(nil, "", 0)
	r.CaseCompleted(nil, 0)
	r.PlanTriggered(0, 0, 0)
	r.AssignmentRejected(nil, 0)

	if r.Summary() != nil {
		t.Error("NopReporter summary should be nil")
	}
}

func TestTraceReporter_Summary_CountsRecords(t *testing.T) {
	tr := &TraceReporter{}
	tr.PlanTriggered(0, 0, 1)
	tr.PlanTriggered(0, 0, 2)

	if got := tr.Summary()["nr trace records"]; got != 2 {
		t.Errorf("nr trace records = %g, want 2", got)
	}
}
