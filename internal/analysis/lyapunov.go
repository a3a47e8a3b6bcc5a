package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a scene, per
// tick, by the trajectory separation method:
//
//  1. build a reference and a shadow copy, nudging body along x in the shadow
//  2. step both and measure the separation of all positions and velocities
//  3. accumulate ln(sep/d0) and pull the shadow back to distance d0
//
// A positive value indicates sensitive dependence on initial conditions.
// Boundary clamps collapse separations, so scenes that hit the walls read
// as less chaotic than they are.
func LyapunovExponent(build func() (*sim.Simulator, error), body int, perturbation float64, ticks int) (float64, error) {
	if perturbation <= 0 {
		return 0, fmt.Errorf("perturbation must be positive, got %g", perturbation)
	}
	if ticks <= 0 {
		return 0, fmt.Errorf("ticks must be positive, got %d", ticks)
	}

	ref, err := build()
	if err != nil {
		return 0, err
	}
	shadow, err := build()
	if err != nil {
		return 0, err
	}
	if body < 0 || body >= ref.Registry().Len() {
		return 0, fmt.Errorf("body index %d out of range", body)
	}
	if ref.Registry().Body(body).Fixed {
		return 0, fmt.Errorf("body %s is fixed", ref.Registry().Body(body).Name)
	}

	d0 := perturbation
	nudge := func() {
		shadow.Registry().Body(body).Pos.X = ref.Registry().Body(body).Pos.X + d0
	}
	nudge()

	sumLog := 0.0
	count := 0
	for i := 0; i < ticks; i++ {
		ref.Step()
		shadow.Step()

		sep := separation(ref.Registry(), shadow.Registry())
		if sep == 0 {
			// Both copies were clamped onto the same wall point.
			nudge()
			continue
		}
		sumLog += math.Log(sep / d0)
		count++
		renormalize(ref.Registry(), shadow.Registry(), d0/sep)
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / float64(count), nil
}

func separation(a, b *physics.Registry) float64 {
	sum := 0.0
	for i, ab := range a.Bodies() {
		dp := b.Body(i).Pos.Sub(ab.Pos)
		dv := b.Body(i).Vel.Sub(ab.Vel)
		sum += dp.X*dp.X + dp.Y*dp.Y + dv.X*dv.X + dv.Y*dv.Y
	}
	return math.Sqrt(sum)
}

func renormalize(ref, shadow *physics.Registry, scale float64) {
	for i, rb := range ref.Bodies() {
		sb := shadow.Body(i)
		sb.Pos = rb.Pos.Add(sb.Pos.Sub(rb.Pos).Scale(scale))
		sb.Vel = rb.Vel.Add(sb.Vel.Sub(rb.Vel).Scale(scale))
	}
}
