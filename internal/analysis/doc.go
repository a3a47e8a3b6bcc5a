// Package analysis inspects recorded trajectories.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectrum of a coordinate series
//   - [Crossings] and [MeanPeriod]: upward passes through y = 0
//   - [OrbitToASCII]: a path plotted on the simulation square
//   - [LyapunovExponent]: divergence of two nearly identical scenes
//
// # Orbital Frequency
//
// A body on a closed orbit shows one strong peak in the spectrum of its x
// coordinate:
//
//	xs, _ := rec.Series(i)
//	f := analysis.DominantFrequency(xs, 1) // cycles per tick
//	if f > 0 {
//	    period := 1 / f
//	}
package analysis
