package metrics

import (
	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

// KineticEnergy is the mean total kinetic energy over the observed ticks.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(r *physics.Registry, s sim.Sample) {
	e.totalEnergy += physics.KineticEnergy(r)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// MomentumDrift is the largest distance between the total momentum and
// its value at the first observed tick. Fixed bodies have zero velocity
// and never contribute.
type MomentumDrift struct {
	name     string
	initial  dynamo.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(r *physics.Registry, s sim.Sample) {
	p := physics.Momentum(r)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	if drift := p.Sub(m.initial).Len(); drift > m.maxDrift {
		m.maxDrift = drift
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = dynamo.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
