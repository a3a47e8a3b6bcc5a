package analysis

import (
	"strings"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
)

// OrbitToASCII plots a path on the simulation square. Points outside
// [-Bound, Bound] are dropped.
func OrbitToASCII(points []dynamo.Vec2, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Axes first so the path draws over them.
	midCol := (width - 1) / 2
	midRow := (height - 1) / 2
	for row := 0; row < height; row++ {
		canvas[row][midCol] = '│'
	}
	for col := 0; col < width; col++ {
		canvas[midRow][col] = '─'
	}
	canvas[midRow][midCol] = '┼'

	for _, p := range points {
		col, row, ok := project(p, width, height)
		if ok {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func project(p dynamo.Vec2, width, height int) (col, row int, ok bool) {
	if p.X < -physics.Bound || p.X > physics.Bound || p.Y < -physics.Bound || p.Y > physics.Bound {
		return 0, 0, false
	}
	col = int((p.X + physics.Bound) / (2 * physics.Bound) * float64(width-1))
	row = height - 1 - int((p.Y+physics.Bound)/(2*physics.Bound)*float64(height-1))
	return col, row, true
}

// Crossing is an upward pass of a path through y = 0.
type Crossing struct {
	// Tick is the fractional sample index of the crossing.
	Tick float64
	X    float64
}

// Crossings finds every sample interval where ys goes from below zero to
// zero or above, interpolating the crossing point linearly.
func Crossings(xs, ys []float64) []Crossing {
	var out []Crossing
	for i := 1; i < len(ys) && i < len(xs); i++ {
		prev, curr := ys[i-1], ys[i]
		if !(prev < 0 && curr >= 0) {
			continue
		}
		frac := -prev / (curr - prev)
		out = append(out, Crossing{
			Tick: float64(i-1) + frac,
			X:    xs[i-1] + (xs[i]-xs[i-1])*frac,
		})
	}
	return out
}

// MeanPeriod is the average spacing between consecutive crossings, in
// samples, or 0 with fewer than two crossings.
func MeanPeriod(c []Crossing) float64 {
	if len(c) < 2 {
		return 0
	}
	return (c[len(c)-1].Tick - c[0].Tick) / float64(len(c)-1)
}
