// Package dynamo provides the shared primitives of the gravity simulator.
//
// The package defines the small value types and error taxonomy used by the
// physics core and everything layered on top of it:
//
//   - [Vec2]: 2-D vector in normalized simulation space
//   - [BodyError]: configuration fault attributed to one body
//   - sentinel errors ([ErrNegativeMass], [ErrNonFinite], ...)
//
// # Error Handling
//
// Configuration faults are detected once, when a registry is built, and
// always unwrap to one of the sentinels so callers can branch with
// [errors.Is]:
//
//	_, err := physics.NewRegistry(specs, 100)
//	if errors.Is(err, dynamo.ErrNegativeMass) {
//	    // reject the config file
//	}
//
// Faults that can occur while stepping (coincident bodies) are handled
// inline by the integrator and never surface as errors.
package dynamo
