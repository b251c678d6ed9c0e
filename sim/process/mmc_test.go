package process

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/bpsim/bpsim/sim"
)

func TestNewMMc_ServerCountValidation(t *testing.T) {
	for _, c := range []int{0, -1} {
		_, err := NewMMc(c)
		var ce *sim.ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("NewMMc(%d) err = %v, want *ConfigurationError", c, err)
		}
	}
	if _, err := NewMMc(1); err != nil {
		t.Errorf("NewMMc(1): %v", err)
	}
}

func TestMMc_Declarations(t *testing.T) {
	m, err := NewMMc(3)
	if err != nil {
		t.Fatal(err)
	}

	want := []sim.Resource{"R1", "R2", "R3"}
	got := m.Resources()
	if len(got) != len(want) {
		t.Fatalf("Resources() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("resource %d = %s, want %s", i, got[i], want[i])
		}
	}

	if types := m.TaskTypes(); len(types) != 1 || types[0] != "T" {
		t.Errorf("TaskTypes() = %v, want [T]", types)
	}
	if pool := m.ResourcePool("T"); len(pool) != 3 {
		t.Errorf("ResourcePool(T) = %v, want all three servers", pool)
	}
	if pool := m.ResourcePool("X"); pool != nil {
		t.Errorf("ResourcePool(X) = %v, want nil", pool)
	}
}

func TestMMc_Resources_ReturnsCopy(t *testing.T) {
	m, _ := NewMMc(2)

	got := m.Resources()
	got[0] = "mutated"

	if m.Resources()[0] != "R1" {
		t.Error("mutating the returned slice must not affect the process")
	}
}

func TestMMc_Utilization(t *testing.T) {
	tests := []struct {
		servers int
		want    float64
	}{
		// rate 0.1*max(c-1,1), service 9
		{1, 0.9},
		{2, 0.45},
		{3, 0.6},
	}
	for _, tc := range tests {
		m, err := NewMMc(tc.servers)
		if err != nil {
			t.Fatal(err)
		}
		if got := m.Utilization(); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Utilization(c=%d) = %g, want %g", tc.servers, got, tc.want)
		}
	}
}

func TestMMc_WaitingTimeAnalytical_SingleServer(t *testing.T) {
	// With one server Erlang-C degenerates to the M/M/1 queue:
	// Wq = rho/(1-rho) * service = 0.9/0.1 * 9 = 81.
	m, err := NewMMc(1)
	if err != nil {
		t.Fatal(err)
	}

	if got := m.WaitingTimeAnalytical(); math.Abs(got-81) > 1e-9 {
		t.Errorf("WaitingTimeAnalytical(c=1) = %.6f, want 81", got)
	}
}

func TestMMc_WaitingTimeAnalytical_TwoServers(t *testing.T) {
	// c=2: offered load 0.9, rho 0.45, Erlang-C 0.405/1.45.
	m, err := NewMMc(2)
	if err != nil {
		t.Fatal(err)
	}

	if got := m.WaitingTimeAnalytical(); math.Abs(got-2.2853) > 1e-3 {
		t.Errorf("WaitingTimeAnalytical(c=2) = %.6f, want ≈ 2.2853", got)
	}
}

func TestMMc_InterarrivalMean(t *testing.T) {
	m, err := NewMMc(2)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(42))
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += m.SampleInterarrival(rng)
	}
	mean := sum / float64(n)
	if math.Abs(mean-10)/10 > 0.05 {
		t.Errorf("interarrival mean = %.2f, want ≈ 10 (rate 0.1)", mean)
	}
}

func TestMMc_ProcessingTimeMean(t *testing.T) {
	m, err := NewMMc(2)
	if err != nil {
		t.Fatal(err)
	}

	// Service is resource and task independent; a nil task is fine here.
	rng := rand.New(rand.NewSource(42))
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += m.SampleProcessingTime(rng, "R1", nil)
	}
	mean := sum / float64(n)
	if math.Abs(mean-9)/9 > 0.05 {
		t.Errorf("processing mean = %.2f, want ≈ 9", mean)
	}
}

func TestMMc_SingleTaskNoRouting(t *testing.T) {
	m, _ := NewMMc(2)
	rng := rand.New(rand.NewSource(42))

	if tt := m.SampleInitialTaskType(rng); tt != "T" {
		t.Errorf("initial task type = %s, want T", tt)
	}
	if next := m.SampleNextTaskTypes(rng, nil); next != nil {
		t.Errorf("successors = %v, want none", next)
	}
	data := m.SampleData(rng, "T")
	if len(data.Labels) != 0 || len(data.Numbers) != 0 {
		t.Errorf("payload = %+v, want empty", data)
	}
}
