package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/gravtrail/internal/config"
	"github.com/san-kum/gravtrail/internal/metrics"
	"github.com/san-kum/gravtrail/internal/sim"
)

func ringBuilder(t *testing.T) func(map[string]float64) (*sim.Simulator, error) {
	t.Helper()
	return func(params map[string]float64) (*sim.Simulator, error) {
		cfg := config.GetPreset("ring", 1)
		if err := ApplyConstants(&cfg.Constants, params); err != nil {
			return nil, err
		}
		s, err := cfg.Build()
		if err != nil {
			return nil, err
		}
		s.AddMetric(metrics.NewPeakSpeed())
		return s, nil
	}
}

func TestGridSearchFindsMinimum(t *testing.T) {
	g, err := NewGridSearch([]string{"gravity", "friction"}, [][]float64{{0, 1, 2}, {0, 0.01}})
	if err != nil {
		t.Fatal(err)
	}

	best, val, trials, err := g.Search(context.Background(), ringBuilder(t), 20, "peak_speed")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(trials) != 6 {
		t.Errorf("expected 6 trials, got %d", len(trials))
	}
	for _, tr := range trials {
		if tr.Err == nil && tr.Value < val {
			t.Errorf("trial %v beat reported best %v", tr.Params, val)
		}
	}
	// Without gravity and with friction the ring only slows down.
	if best["gravity"] != 0 || best["friction"] != 0.01 {
		t.Errorf("best = %v", best)
	}
}

func TestGridSearchSkipsInvalidPoints(t *testing.T) {
	g, _ := NewGridSearch([]string{"softening"}, [][]float64{{-1, 0.3}})

	best, _, trials, err := g.Search(context.Background(), ringBuilder(t), 5, "peak_speed")
	if err != nil {
		t.Fatal(err)
	}
	if trials[0].Err == nil {
		t.Error("negative softening should fail to build")
	}
	if best["softening"] != 0.3 {
		t.Errorf("best = %v", best)
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"gravity"}, nil); err == nil {
		t.Error("expected mismatch error")
	}
	if _, err := NewGridSearch([]string{"gravity"}, [][]float64{{}}); err == nil {
		t.Error("expected empty range error")
	}

	g, _ := NewGridSearch([]string{"gravity"}, [][]float64{{1}})
	if _, _, _, err := g.Search(context.Background(), ringBuilder(t), 5, "nope"); err == nil {
		t.Error("expected missing metric error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := g.Search(ctx, ringBuilder(t), 5, "peak_speed"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	g, _ = NewGridSearch([]string{"mass"}, [][]float64{{1}})
	if _, _, _, err := g.Search(context.Background(), ringBuilder(t), 5, "peak_speed"); err == nil {
		t.Error("expected error when every point fails")
	}
}
