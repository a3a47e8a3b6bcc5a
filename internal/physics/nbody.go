package physics

import (
	"math"

	"github.com/san-kum/gravtrail/internal/dynamo"
)

const (
	DefaultGravity            = 1.0
	DefaultSoftening          = 0.3
	DefaultFriction           = 0.001
	DefaultDistanceMultiplier = 100.0
	DefaultTrailCapacity      = 100

	// Bound is the half-width of the square simulation space.
	Bound = 1.0
)

// Constants are the process-wide simulation parameters. They are fixed
// once an Integrator is built.
type Constants struct {
	Gravity            float64
	Softening          float64
	Friction           float64
	DistanceMultiplier float64
	TrailCapacity      int
}

func DefaultConstants() Constants {
	return Constants{
		Gravity:            DefaultGravity,
		Softening:          DefaultSoftening,
		Friction:           DefaultFriction,
		DistanceMultiplier: DefaultDistanceMultiplier,
		TrailCapacity:      DefaultTrailCapacity,
	}
}

// Validate reports the first constant outside its valid range.
// Gravity may be negative (repulsive), but must be finite. Softening must
// be positive so the force stays bounded as two bodies close in.
func (c Constants) Validate() error {
	check := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"gravity", c.Gravity, true},
		{"softening", c.Softening, c.Softening > 0},
		{"friction", c.Friction, c.Friction >= 0 && c.Friction <= 1},
		{"distance_multiplier", c.DistanceMultiplier, c.DistanceMultiplier > 0},
		{"trail_capacity", float64(c.TrailCapacity), c.TrailCapacity >= 0},
	}
	for _, k := range check {
		if !finite(k.v) {
			return &dynamo.ConstantError{Name: k.name, Value: k.v, Wrapped: dynamo.ErrNonFinite}
		}
		if !k.ok {
			return &dynamo.ConstantError{Name: k.name, Value: k.v, Wrapped: dynamo.ErrInvalidConstant}
		}
	}
	return nil
}

// StepStats summarizes one tick.
type StepStats struct {
	// Clamped counts bodies that hit the boundary this tick.
	Clamped int
	// Degenerate counts (base, affecting) pairs skipped because their
	// scaled separation was exactly zero or their pull was not finite.
	Degenerate int
}

// Integrator advances a registry by one fixed tick. It holds no state
// besides its constants.
type Integrator struct {
	c Constants
}

func NewIntegrator(c Constants) (*Integrator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Integrator{c: c}, nil
}

func (in *Integrator) Constants() Constants { return in.c }

// Step runs the three passes in order over every body: force
// accumulation, position update with boundary clamp, then damping and
// trail sampling. The passes are never interleaved.
func (in *Integrator) Step(r *Registry) StepStats {
	var stats StepStats
	bodies := r.bodies
	stats.Degenerate = in.accumulate(bodies)
	stats.Clamped = in.advance(bodies)
	in.settle(bodies)
	return stats
}

// accumulate adds each pair's pull to the base body's velocity. Positions
// are only read here, so every pair sees the start-of-tick layout.
func (in *Integrator) accumulate(bodies []*Body) int {
	degenerate := 0
	for _, base := range bodies {
		if base.Fixed {
			continue
		}
		for _, affecting := range bodies {
			if affecting == base || affecting.Mass == 0 {
				continue
			}
			dx := base.Pos.X - affecting.Pos.X
			dy := base.Pos.Y - affecting.Pos.Y
			d := in.c.DistanceMultiplier * math.Hypot(dx, dy)
			if d == 0 {
				degenerate++
				continue
			}

			combined := base.Mass + affecting.Mass
			fraction := 1 - base.Mass/combined
			force := combined / math.Pow(d+in.c.Softening, 1.5)

			pull := fraction * force * in.c.Gravity
			vel := dynamo.Vec2{
				X: base.Vel.X - (dx/d)*pull,
				Y: base.Vel.Y - (dy/d)*pull,
			}
			if !vel.IsValid() {
				degenerate++
				continue
			}
			base.Vel = vel
		}
	}
	return degenerate
}

// advance moves every body and clamps it to the bounding square. A body
// that touches the boundary on either axis loses its whole velocity.
func (in *Integrator) advance(bodies []*Body) int {
	clamped := 0
	for _, b := range bodies {
		b.Pos = b.Pos.Add(b.Vel)
		hitX := clampAxis(&b.Pos.X)
		hitY := clampAxis(&b.Pos.Y)
		if hitX || hitY {
			b.Vel = dynamo.Vec2{}
			clamped++
		}
	}
	return clamped
}

// clampAxis pulls v into [-Bound, Bound] and reports whether it had to.
func clampAxis(v *float64) bool {
	switch {
	case *v > Bound:
		*v = Bound
	case *v < -Bound:
		*v = -Bound
	default:
		return false
	}
	return true
}

func (in *Integrator) settle(bodies []*Body) {
	for _, b := range bodies {
		b.Vel = b.Vel.Sub(b.Vel.Scale(in.c.Friction))
		b.Trail.Push(b.Pos)
	}
}
