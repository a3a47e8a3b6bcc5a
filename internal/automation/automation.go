package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravtrail/internal/config"
	"github.com/san-kum/gravtrail/internal/metrics"
	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
	"github.com/san-kum/gravtrail/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run of a scenario. A step names either a preset or
// a scene file; zero fields keep the scene's own values.
type ScenarioStep struct {
	Preset    string   `yaml:"preset"`
	Config    string   `yaml:"config"`
	Seed      int64    `yaml:"seed"`
	Ticks     int      `yaml:"ticks"`
	Every     int      `yaml:"every"`
	Gravity   *float64 `yaml:"gravity"`
	Softening *float64 `yaml:"softening"`
	Friction  *float64 `yaml:"friction"`
	SaveAs    string   `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step. RunID is empty when the
// step was not saved.
type StepResult struct {
	Scene  string
	Seed   int64
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Scene resolves the step's configuration.
func (st ScenarioStep) Scene() (*config.Config, error) {
	var cfg *config.Config
	if st.Config != "" {
		c, err := config.Load(st.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
		if st.Seed != 0 {
			cfg.Seed = st.Seed
		}
	} else {
		name := st.Preset
		if name == "" {
			name = "default"
		}
		seed := st.Seed
		if seed == 0 {
			seed = config.DefaultSeed
		}
		cfg = config.GetPreset(name, seed)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
	}

	if st.Ticks > 0 {
		cfg.Ticks = st.Ticks
	}
	if st.Gravity != nil {
		cfg.Constants.Gravity = *st.Gravity
	}
	if st.Softening != nil {
		cfg.Constants.Softening = *st.Softening
	}
	if st.Friction != nil {
		cfg.Constants.Friction = *st.Friction
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps with save_as are stored
// when store is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Scene()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "scene", cfg.Name, "ticks", cfg.Ticks)

		s, err := cfg.Build()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		every := step.Every
		if every <= 0 {
			every = 1
		}
		rec := storage.NewRecorder(s.Registry(), every)
		s.AddObserver(rec)

		result, err := s.Run(ctx, cfg.Ticks)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		out := StepResult{Scene: cfg.Name, Seed: cfg.Seed, Result: result}
		if step.SaveAs != "" && store != nil {
			meta := storage.Describe(step.SaveAs, cfg.Seed, s.Registry(), s.Constants())
			meta.Ticks = result.Ticks
			meta.Metrics = result.Metrics
			id, err := store.Save(meta, rec.Recording())
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			out.RunID = id
		}
		results = append(results, out)
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Scene        *config.Config
	Perturbation float64
	NumTrials    int
	Ticks        int
	Seed         int64
}

// MonteCarloResult holds the outcome of one perturbed trial
type MonteCarloResult struct {
	TrialID   int
	Contacts  int
	PeakSpeed float64
	// Contained is true when no body touched the boundary.
	Contained bool
}

// RunMonteCarlo runs the scene NumTrials times, each with every movable
// body's start position jittered by up to Perturbation per axis.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *log.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}
	if cfg.Perturbation < 0 {
		return nil, fmt.Errorf("perturbation must not be negative, got %g", cfg.Perturbation)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		scene := *cfg.Scene
		scene.Bodies = make([]config.BodyConfig, len(cfg.Scene.Bodies))
		copy(scene.Bodies, cfg.Scene.Bodies)
		for i := range scene.Bodies {
			b := &scene.Bodies[i]
			if b.Fixed {
				continue
			}
			b.X = jitter(rng, b.X, cfg.Perturbation)
			b.Y = jitter(rng, b.Y, cfg.Perturbation)
		}

		s, err := scene.Build()
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		contacts := metrics.NewBoundaryContacts()
		peak := metrics.NewPeakSpeed()
		s.AddMetric(contacts)
		s.AddMetric(peak)

		if _, err := s.Run(ctx, cfg.Ticks); err != nil {
			return nil, err
		}

		n := int(contacts.Value())
		results = append(results, MonteCarloResult{
			TrialID:   trial,
			Contacts:  n,
			PeakSpeed: peak.Value(),
			Contained: n == 0,
		})

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

func jitter(rng *rand.Rand, v, amount float64) float64 {
	v += (rng.Float64() - 0.5) * 2 * amount
	return math.Max(-physics.Bound, math.Min(physics.Bound, v))
}

// MonteCarloStats counts trials that stayed clear of the boundary.
func MonteCarloStats(results []MonteCarloResult) (contained int, escaped int) {
	for _, r := range results {
		if r.Contained {
			contained++
		} else {
			escaped++
		}
	}
	return
}
