package sim

import "github.com/san-kum/gravtrail/internal/physics"

// Sample describes the tick that just completed.
type Sample struct {
	Tick  int
	Stats physics.StepStats
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(r *physics.Registry, s Sample)
	Value() float64
	Reset()
}

// Observer is notified after every tick with the post-step registry.
type Observer interface {
	OnStep(r *physics.Registry, s Sample)
}

// Result is the outcome of a headless run.
type Result struct {
	Ticks      int
	Clamped    int
	Degenerate int
	Metrics    map[string]float64
}
