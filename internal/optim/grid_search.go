package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravtrail/internal/config"
	"github.com/san-kum/gravtrail/internal/sim"
)

// GridSearch tries every combination of the given constant values and
// keeps the one with the smallest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search runs build for every grid point for the given number of ticks
// and returns the point minimizing metricName. Points whose build fails
// are recorded with their error and skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	ticks int,
	metricName string,
) (map[string]float64, float64, []Trial, error) {

	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		s, err := build(params)
		if err != nil {
			trials = append(trials, Trial{Params: params, Err: err})
			return nil
		}

		result, err := s.Run(ctx, ticks)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("metric %q not collected", metricName)
		}
		trials = append(trials, Trial{Params: params, Value: val})

		if val < best {
			best = val
			bestParams = params
		}
		return nil
	})
	if err != nil {
		return nil, 0, trials, err
	}
	if bestParams == nil {
		return nil, 0, trials, fmt.Errorf("no grid point produced a valid scene")
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval); err != nil {
			return err
		}
	}
	return nil
}

// ApplyConstants overwrites the named constants of c.
func ApplyConstants(c *config.ConstantsConfig, params map[string]float64) error {
	for name, v := range params {
		switch name {
		case "gravity":
			c.Gravity = v
		case "softening":
			c.Softening = v
		case "friction":
			c.Friction = v
		case "distance_multiplier":
			c.DistanceMultiplier = v
		default:
			return fmt.Errorf("unknown constant %q", name)
		}
	}
	return nil
}
