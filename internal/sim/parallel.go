package sim

import (
	"context"
	"fmt"
	"sync"
)

// Builder constructs a fresh simulator for one seed.
type Builder func(seed int64) (*Simulator, error)

// Ensemble runs independent simulations, one goroutine each. Simulators
// never share a registry, so every run remains single-threaded.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// EnsembleRun is the outcome of one member of an ensemble.
type EnsembleRun struct {
	Seed   int64
	Result *Result
}

// Run steps every member for ticks ticks. Results are ordered by seed.
func (e *Ensemble) Run(ctx context.Context, ticks int) ([]EnsembleRun, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}

	runs := make([]EnsembleRun, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			runs[idx].Seed = seed

			s, err := e.build(seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}
			runs[idx].Result, errs[idx] = s.Run(ctx, ticks)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return runs, nil
}
