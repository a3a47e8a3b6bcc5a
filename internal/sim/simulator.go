package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/san-kum/gravtrail/internal/physics"
)

// Simulator owns one registry and the integrator that advances it. It is
// the only mutator of the registry and is not safe for concurrent use:
// presentation layers call Frame from their own loop goroutine.
type Simulator struct {
	reg       *physics.Registry
	integ     *physics.Integrator
	tick      int
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(reg *physics.Registry, integ *physics.Integrator) *Simulator {
	return &Simulator{
		reg:       reg,
		integ:     integ,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Registry() *physics.Registry  { return s.reg }
func (s *Simulator) Constants() physics.Constants { return s.integ.Constants() }

// Tick returns the number of completed ticks.
func (s *Simulator) Tick() int { return s.tick }

// Step advances the simulation by exactly one tick and notifies metrics
// and observers.
func (s *Simulator) Step() physics.StepStats {
	stats := s.integ.Step(s.reg)
	s.tick++

	if stats.Degenerate > 0 {
		s.logger.Debug("skipped coincident pairs", "tick", s.tick, "pairs", stats.Degenerate)
	}

	sample := Sample{Tick: s.tick, Stats: stats}
	for _, m := range s.metrics {
		m.Observe(s.reg, sample)
	}
	for _, o := range s.observers {
		o.OnStep(s.reg, sample)
	}
	return stats
}

// Frame draws the state left by the previous tick, then steps once.
func (s *Simulator) Frame(draw func(r *physics.Registry, tick int)) physics.StepStats {
	if draw != nil {
		draw(s.reg, s.tick)
	}
	return s.Step()
}

// Run steps the simulation ticks times, checking ctx between ticks.
func (s *Simulator) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", ticks)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{Metrics: make(map[string]float64)}
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		stats := s.Step()
		result.Ticks++
		result.Clamped += stats.Clamped
		result.Degenerate += stats.Degenerate
	}

	s.collect(result)
	s.logger.Debug("run complete", "ticks", result.Ticks, "clamped", result.Clamped, "degenerate", result.Degenerate)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
