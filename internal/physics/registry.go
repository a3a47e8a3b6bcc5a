package physics

import "github.com/san-kum/gravtrail/internal/dynamo"

// Registry is the fixed, ordered set of bodies. Order defines the force
// summation order and never changes after construction.
type Registry struct {
	bodies []*Body
}

// NewRegistry validates every BodySpec and builds one body, with an empty
// trail of trailCapacity samples, for each. An empty list is valid.
func NewRegistry(specs []BodySpec, trailCapacity int) (*Registry, error) {
	if trailCapacity < 0 {
		return nil, &dynamo.ConstantError{Name: "trail_capacity", Value: float64(trailCapacity), Wrapped: dynamo.ErrInvalidConstant}
	}

	bodies := make([]*Body, len(specs))
	for i, s := range specs {
		if err := s.validate(); err != nil {
			return nil, &dynamo.BodyError{Index: i, Name: s.Name, Wrapped: err}
		}
		bodies[i] = &Body{
			Name:  s.Name,
			Pos:   s.Pos,
			Vel:   s.Vel,
			Mass:  s.Mass,
			Size:  s.Size,
			Color: s.Color,
			Fixed: s.Fixed,
			Trail: NewTrail(trailCapacity),
		}
	}
	return &Registry{bodies: bodies}, nil
}

// Bodies returns the shared body handles in registry order. Callers other
// than the integrator must treat them as read-only.
func (r *Registry) Bodies() []*Body { return r.bodies }

func (r *Registry) Len() int { return len(r.bodies) }

func (r *Registry) Body(i int) *Body { return r.bodies[i] }

// Snapshot copies the current kinematic state of every body.
func (r *Registry) Snapshot() []BodyState {
	out := make([]BodyState, len(r.bodies))
	for i, b := range r.bodies {
		out[i] = BodyState{Name: b.Name, Pos: b.Pos, Vel: b.Vel}
	}
	return out
}
