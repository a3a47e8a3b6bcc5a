package physics

import (
	"image/color"
	"math"

	"github.com/san-kum/gravtrail/internal/dynamo"
)

// BodySpec is the initial configuration of one body.
type BodySpec struct {
	Name  string
	Pos   dynamo.Vec2
	Vel   dynamo.Vec2
	Mass  float64
	Size  float64
	Color color.RGBA
	Fixed bool
}

// Body is a simulated point mass. Pos and Vel are mutated in place by the
// integrator; the rest is configuration.
type Body struct {
	Name  string
	Pos   dynamo.Vec2
	Vel   dynamo.Vec2
	Mass  float64
	Size  float64
	Color color.RGBA
	Fixed bool
	Trail *Trail
}

// BodyState is a value copy of a body's kinematic state.
type BodyState struct {
	Name string
	Pos  dynamo.Vec2
	Vel  dynamo.Vec2
}

// DefaultSize is the visual size used when none is configured.
func DefaultSize(mass float64) float64 {
	return mass / 10
}

func (s BodySpec) validate() error {
	switch {
	case !s.Pos.IsValid() || !s.Vel.IsValid() || !finite(s.Mass) || !finite(s.Size):
		return dynamo.ErrNonFinite
	case s.Mass < 0:
		return dynamo.ErrNegativeMass
	case s.Size < 0:
		return dynamo.ErrInvalidSize
	case s.Fixed && !s.Vel.IsZero():
		return dynamo.ErrFixedMoving
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
