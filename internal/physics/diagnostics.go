package physics

import (
	"math"

	"github.com/san-kum/gravtrail/internal/dynamo"
)

// KineticEnergy returns the sum of 0.5*m*|v|^2 over all bodies.
func KineticEnergy(r *Registry) float64 {
	ke := 0.0
	for _, b := range r.bodies {
		ke += 0.5 * b.Mass * (b.Vel.X*b.Vel.X + b.Vel.Y*b.Vel.Y)
	}
	return ke
}

// Momentum returns the total linear momentum.
func Momentum(r *Registry) dynamo.Vec2 {
	var p dynamo.Vec2
	for _, b := range r.bodies {
		p = p.Add(b.Vel.Scale(b.Mass))
	}
	return p
}

// PeakSpeed returns the largest body speed, or 0 for an empty registry.
func PeakSpeed(r *Registry) float64 {
	peak := 0.0
	for _, b := range r.bodies {
		peak = math.Max(peak, b.Vel.Len())
	}
	return peak
}

// Movable counts the bodies that are not fixed.
func Movable(r *Registry) int {
	n := 0
	for _, b := range r.bodies {
		if !b.Fixed {
			n++
		}
	}
	return n
}
