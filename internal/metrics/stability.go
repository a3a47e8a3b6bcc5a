package metrics

import (
	"math"

	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

// PeakSpeed is the fastest any body moved during the run.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(r *physics.Registry, s sim.Sample) {
	p.peak = math.Max(p.peak, physics.PeakSpeed(r))
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// BoundaryContacts counts clamps against the walls of the square.
type BoundaryContacts struct {
	name     string
	contacts int
}

func NewBoundaryContacts() *BoundaryContacts {
	return &BoundaryContacts{name: "boundary_contacts"}
}

func (b *BoundaryContacts) Name() string { return b.name }

func (b *BoundaryContacts) Observe(r *physics.Registry, s sim.Sample) {
	b.contacts += s.Stats.Clamped
}

func (b *BoundaryContacts) Value() float64 { return float64(b.contacts) }
func (b *BoundaryContacts) Reset()         { b.contacts = 0 }

// DegeneratePairs counts body pairs skipped because they coincided.
type DegeneratePairs struct {
	name  string
	pairs int
}

func NewDegeneratePairs() *DegeneratePairs {
	return &DegeneratePairs{name: "degenerate_pairs"}
}

func (d *DegeneratePairs) Name() string { return d.name }

func (d *DegeneratePairs) Observe(r *physics.Registry, s sim.Sample) {
	d.pairs += s.Stats.Degenerate
}

func (d *DegeneratePairs) Value() float64 { return float64(d.pairs) }
func (d *DegeneratePairs) Reset()         { d.pairs = 0 }

// Default returns a fresh instance of every metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewPeakSpeed(),
		NewBoundaryContacts(),
		NewDegeneratePairs(),
		NewMomentumDrift(),
	}
}
