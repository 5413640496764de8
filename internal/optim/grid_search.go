// Package optim searches scene parameters for the best value of a metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/genviz/internal/sim"
)

var ErrNoTrials = errors.New("no trial completed")

// Builder returns a fresh simulator for one parameter combination.
type Builder func(params map[string]float64) (*sim.Simulator, error)

type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the objective. The default minimizes.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values covering [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search runs every combination with cfg and returns the best parameters,
// their metric value and the full trial log. Trials that fail are recorded
// and skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, cfg sim.Config, metricName string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	s := &search{
		grid:   g,
		build:  build,
		cfg:    cfg,
		metric: metricName,
		best:   math.Inf(1),
	}
	if g.Maximize {
		s.best = math.Inf(-1)
	}

	if err := s.recurse(ctx, 0, make(map[string]float64)); err != nil {
		return nil, 0, s.trials, err
	}
	if s.bestParams == nil {
		return nil, 0, s.trials, ErrNoTrials
	}
	return s.bestParams, s.best, s.trials, nil
}

type search struct {
	grid       *GridSearch
	build      Builder
	cfg        sim.Config
	metric     string
	best       float64
	bestParams map[string]float64
	trials     []Trial
}

func (s *search) better(v float64) bool {
	if s.grid.Maximize {
		return v > s.best
	}
	return v < s.best
}

func (s *search) recurse(ctx context.Context, depth int, current map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(s.grid.paramNames) {
		trial := Trial{Params: maps.Clone(current)}
		trial.Value, trial.Err = s.evaluate(ctx, current)
		s.trials = append(s.trials, trial)
		if errors.Is(trial.Err, context.Canceled) || errors.Is(trial.Err, context.DeadlineExceeded) {
			return trial.Err
		}
		if trial.Err == nil && s.better(trial.Value) {
			s.best = trial.Value
			s.bestParams = trial.Params
		}
		return nil
	}

	name := s.grid.paramNames[depth]
	for _, val := range s.grid.ranges[depth] {
		next := maps.Clone(current)
		next[name] = val
		if err := s.recurse(ctx, depth+1, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *search) evaluate(ctx context.Context, params map[string]float64) (float64, error) {
	simulator, err := s.build(params)
	if err != nil {
		return 0, err
	}
	result, err := simulator.Run(ctx, s.cfg)
	if err != nil {
		return 0, err
	}
	v, ok := result.Metrics[s.metric]
	if !ok {
		return 0, fmt.Errorf("metric %q not recorded", s.metric)
	}
	return v, nil
}
