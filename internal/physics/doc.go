// Package physics implements the gravity core: bodies, their trails, and
// the fixed-tick integrator.
//
//   - [Registry]: the ordered, fixed set of [Body] values
//   - [Trail]: per-body ring buffer of past positions, oldest first
//   - [Integrator]: advances a registry by exactly one tick
//
// # Tick
//
// [Integrator.Step] performs three passes that are never interleaved:
//
//  1. every movable body accumulates velocity from every other body with
//     nonzero mass, reading positions only
//  2. every body moves by its velocity and is clamped to [-1, 1]; a clamped
//     body stops dead
//  3. every velocity is damped by the friction constant and the new
//     position is pushed onto the body's trail
//
// Pairs whose scaled separation is exactly zero are skipped for that tick
// and counted in [StepStats]; they never inject NaN into the state.
//
//	reg, _ := physics.NewRegistry(specs, physics.DefaultTrailCapacity)
//	integ, _ := physics.NewIntegrator(physics.DefaultConstants())
//	stats := integ.Step(reg)
package physics
