package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravtrail/internal/automation"
	"github.com/san-kum/gravtrail/internal/metrics"
	"github.com/san-kum/gravtrail/internal/optim"
	"github.com/san-kum/gravtrail/internal/sim"
	"github.com/san-kum/gravtrail/internal/storage"
)

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, p := range []struct {
		name   string
		values []float64
	}{{"gravity", tuneGravity}, {"softening", tuneSoftening}, {"friction", tuneFriction}} {
		if len(p.values) > 0 {
			names = append(names, p.name)
			ranges = append(ranges, p.values)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing to tune: give at least one of --gravities, --softening, --friction")
	}

	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	build := func(params map[string]float64) (*sim.Simulator, error) {
		scene := *cfg
		if err := optim.ApplyConstants(&scene.Constants, params); err != nil {
			return nil, err
		}
		s, err := scene.Build()
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		return s, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, value, results, err := grid.Search(ctx, build, tuneTicks, tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t", name)
	}
	fmt.Fprintln(w, tuneMetric)
	for _, tr := range results {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", tr.Params[name])
		}
		if tr.Err != nil {
			fmt.Fprintf(w, "invalid: %v\n", tr.Err)
			continue
		}
		fmt.Fprintf(w, "%.6g\n", tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("\nbest %s = %.6g at", tuneMetric, value)
	for _, k := range keys {
		fmt.Printf(" %s=%g", k, best[k])
	}
	fmt.Println()
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, st, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tSEED\tTICKS\tCLAMPED\tRUN")
	for i, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n", i+1, r.Scene, r.Seed, r.Result.Ticks, r.Result.Clamped, id)
	}
	return w.Flush()
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Scene:        cfg,
		Perturbation: mcJitter,
		NumTrials:    trials,
		Ticks:        mcTicks,
		Seed:         cfg.Seed,
	}, logger)
	if err != nil {
		return err
	}

	contained, escaped := automation.MonteCarloStats(results)
	var peak float64
	for _, r := range results {
		peak = max(peak, r.PeakSpeed)
	}

	fmt.Printf("scene: %s\n", cfg.Name)
	fmt.Printf("trials: %d (jitter %g)\n", len(results), mcJitter)
	fmt.Printf("contained: %d\n", contained)
	fmt.Printf("reached wall: %d\n", escaped)
	fmt.Printf("peak speed: %.5g\n", peak)
	return nil
}
