package storage

import (
	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

// Recording is the position history of every body, one row per
// captured tick. Positions[i][j] is body j at Ticks[i].
type Recording struct {
	Names     []string
	Ticks     []int
	Positions [][]dynamo.Vec2
}

func (r *Recording) Len() int { return len(r.Ticks) }

// Series returns the x and y coordinates of one body over time.
func (r *Recording) Series(body int) (xs, ys []float64) {
	xs = make([]float64, len(r.Positions))
	ys = make([]float64, len(r.Positions))
	for i, row := range r.Positions {
		xs[i] = row[body].X
		ys[i] = row[body].Y
	}
	return xs, ys
}

// Index returns the position of the named body, or -1.
func (r *Recording) Index(name string) int {
	for i, n := range r.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Recorder is a sim.Observer capturing positions every `every` ticks.
// The state at construction is captured as tick 0.
type Recorder struct {
	every int
	rec   Recording
}

func NewRecorder(r *physics.Registry, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	names := make([]string, r.Len())
	for i, b := range r.Bodies() {
		names[i] = b.Name
	}
	rec := &Recorder{every: every, rec: Recording{Names: names}}
	rec.capture(r, 0)
	return rec
}

func (rec *Recorder) OnStep(r *physics.Registry, s sim.Sample) {
	if s.Tick%rec.every == 0 {
		rec.capture(r, s.Tick)
	}
}

func (rec *Recorder) capture(r *physics.Registry, tick int) {
	row := make([]dynamo.Vec2, r.Len())
	for i, b := range r.Bodies() {
		row[i] = b.Pos
	}
	rec.rec.Ticks = append(rec.rec.Ticks, tick)
	rec.rec.Positions = append(rec.rec.Positions, row)
}

func (rec *Recorder) Recording() *Recording { return &rec.rec }
