package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

func registry(t *testing.T, specs ...physics.BodySpec) *physics.Registry {
	t.Helper()
	reg, err := physics.NewRegistry(specs, 4)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestKineticEnergyMean(t *testing.T) {
	m := NewKineticEnergy()
	reg := registry(t,
		physics.BodySpec{Name: "a", Vel: dynamo.Vec2{X: 3, Y: 4}, Mass: 2},
		physics.BodySpec{Name: "sun", Mass: 10, Fixed: true},
	)

	m.Observe(reg, sim.Sample{Tick: 1})
	if got := m.Value(); math.Abs(got-25) > 1e-12 {
		t.Errorf("expected energy 25, got %v", got)
	}

	reg.Body(0).Vel = dynamo.Vec2{}
	m.Observe(reg, sim.Sample{Tick: 2})
	if got := m.Value(); math.Abs(got-12.5) > 1e-12 {
		t.Errorf("expected mean 12.5, got %v", got)
	}
}

func TestKineticEnergyReset(t *testing.T) {
	m := NewKineticEnergy()
	reg := registry(t, physics.BodySpec{Name: "a", Vel: dynamo.Vec2{X: 1}, Mass: 1})

	m.Observe(reg, sim.Sample{Tick: 1})
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()
	reg := registry(t, physics.BodySpec{Name: "a", Vel: dynamo.Vec2{X: 1}, Mass: 2})

	m.Observe(reg, sim.Sample{Tick: 1})
	if m.Value() != 0 {
		t.Errorf("first sample should not drift, got %v", m.Value())
	}

	reg.Body(0).Vel = dynamo.Vec2{X: 1, Y: 1.5}
	m.Observe(reg, sim.Sample{Tick: 2})
	reg.Body(0).Vel = dynamo.Vec2{X: 1}
	m.Observe(reg, sim.Sample{Tick: 3})

	if got := m.Value(); math.Abs(got-3) > 1e-12 {
		t.Errorf("expected max drift 3, got %v", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestCounters(t *testing.T) {
	reg := registry(t)
	contacts := NewBoundaryContacts()
	pairs := NewDegeneratePairs()

	for _, s := range []physics.StepStats{{Clamped: 1}, {Clamped: 2, Degenerate: 2}, {}} {
		contacts.Observe(reg, sim.Sample{Stats: s})
		pairs.Observe(reg, sim.Sample{Stats: s})
	}

	if contacts.Value() != 3 {
		t.Errorf("boundary_contacts = %v, want 3", contacts.Value())
	}
	if pairs.Value() != 2 {
		t.Errorf("degenerate_pairs = %v, want 2", pairs.Value())
	}
}

func TestPeakSpeed(t *testing.T) {
	m := NewPeakSpeed()
	reg := registry(t,
		physics.BodySpec{Name: "slow", Vel: dynamo.Vec2{X: 0.1}, Mass: 1},
		physics.BodySpec{Name: "fast", Vel: dynamo.Vec2{Y: -0.5}, Mass: 1},
	)
	m.Observe(reg, sim.Sample{})
	reg.Body(1).Vel = dynamo.Vec2{}
	m.Observe(reg, sim.Sample{})

	if m.Value() != 0.5 {
		t.Errorf("peak_speed = %v, want 0.5", m.Value())
	}
}

func TestDefaultMetricsInSimulator(t *testing.T) {
	reg := registry(t,
		physics.BodySpec{Name: "sun", Mass: 10, Fixed: true},
		physics.BodySpec{Name: "planet", Pos: dynamo.Vec2{X: 0.5}, Mass: 1},
	)
	integ, err := physics.NewIntegrator(physics.DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}
	s := sim.New(reg, integ)
	for _, m := range Default() {
		s.AddMetric(m)
	}

	result, err := s.Run(context.Background(), 20)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"kinetic_energy", "peak_speed", "boundary_contacts", "degenerate_pairs", "momentum_drift"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing from result", name)
		}
	}
	if result.Metrics["kinetic_energy"] <= 0 {
		t.Error("planet falling toward the sun should have kinetic energy")
	}
}
