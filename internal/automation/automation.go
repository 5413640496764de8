// Package automation runs scripted scene sessions: YAML scenarios, single
// parameter sweeps and seed studies, all headless.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/san-kum/genviz/internal/catalog"
	"github.com/san-kum/genviz/internal/config"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/metrics"
	"github.com/san-kum/genviz/internal/resources"
	"github.com/san-kum/genviz/internal/sim"
	"github.com/san-kum/genviz/internal/storage"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Scene   string             `yaml:"scene"`
	Preset  string             `yaml:"preset"`
	Params  map[string]float64 `yaml:"params"`
	Frames  int                `yaml:"frames"`
	Every   int                `yaml:"every"`
	PauseAt int                `yaml:"pause_at"`
	Width   float64            `yaml:"width"`
	Height  float64            `yaml:"height"`
	// Save stores the step as a capture when the runner has a store.
	Save bool `yaml:"save"`
}

// StepResult pairs a finished step with its capture id, if saved.
type StepResult struct {
	Step    ScenarioStep
	Result  *sim.Result
	Capture string
}

// Runner holds what every run needs. Store may be nil.
type Runner struct {
	Catalog   *catalog.Registry
	Base      *config.Config
	Resources *resources.Registry
	Store     *storage.Store
	Log       *logrus.Entry
}

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
		return nil, fmt.Errorf("scenario %q has no steps: %w", scenario.Name, dynamo.ErrInvalidConfig)
	}
	return &scenario, nil
}

func (r *Runner) log() *logrus.Entry {
	if r.Log == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		return logrus.NewEntry(l)
	}
	return r.Log
}

// configFor copies the base config and applies a preset then params.
func (r *Runner) configFor(name, preset string, params map[string]float64) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Base != nil {
		c := *r.Base
		cfg = &c
	}
	cfg.Scene = name
	if preset != "" && !config.ApplyPreset(cfg, name, preset) {
		return nil, fmt.Errorf("preset %q for %s: %w", preset, name, dynamo.ErrInvalidConfig)
	}
	if err := cfg.SetParams(params); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (r *Runner) simulate(ctx context.Context, cfg *config.Config, simCfg sim.Config) (*sim.Result, error) {
	cat := r.Catalog
	if cat == nil {
		cat = catalog.NewRegistry()
	}
	s, err := cat.New(cfg.Scene, cfg, r.Resources, r.log())
	if err != nil {
		return nil, err
	}
	runner := sim.New(s)
	runner.AddMetric(metrics.NewFrameTime())
	runner.AddMetric(metrics.NewBudget(cfg.FPS))
	runner.AddMetric(metrics.NewLuminance())
	return runner.Run(ctx, simCfg)
}

// RunScenario executes steps in order and stops at the first failure,
// returning what finished before it.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		r.log().WithFields(logrus.Fields{"step": i + 1, "of": len(scenario.Steps), "scene": step.Scene}).Info("scenario step")

		cfg, err := r.configFor(step.Scene, step.Preset, step.Params)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Width > 0 {
			cfg.Width = step.Width
		}
		if step.Height > 0 {
			cfg.Height = step.Height
		}
		frames := step.Frames
		if frames == 0 {
			frames = cfg.FPS
		}

		res, err := r.simulate(ctx, cfg, sim.Config{
			Viewport: cfg.Viewport(),
			Frames:   frames,
			Every:    step.Every,
			PauseAt:  step.PauseAt,
		})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		out := StepResult{Step: step, Result: res}
		if step.Save && r.Store != nil {
			out.Capture, err = r.Store.Save(&storage.Capture{
				Meta: storage.CaptureMetadata{
					Scene:      res.Scene,
					Seed:       cfg.Seed,
					Width:      cfg.Width,
					Height:     cfg.Height,
					PixelRatio: cfg.PixelRatio,
					FPS:        cfg.FPS,
					Preset:     step.Preset,
					Metrics:    res.Metrics,
				},
				Frames:  res.Snapshots,
				Timings: res.Timings,
			})
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

// ParameterSweep varies one tunable across [Min, Max] in Steps points.
type ParameterSweep struct {
	Scene  string
	Preset string
	Param  string
	Min    float64
	Max    float64
	Steps  int
	Frames int
}

type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
}

func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Steps < 1 || sweep.Frames < 1 {
		return nil, fmt.Errorf("sweep needs steps and frames: %w", dynamo.ErrInvalidConfig)
	}
	if _, ok := config.Tunables[sweep.Param]; !ok {
		return nil, fmt.Errorf("%q: %w", sweep.Param, config.ErrUnknownParam)
	}

	results := make([]SweepResult, 0, sweep.Steps)
	step := 0.0
	if sweep.Steps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	}

	for i := 0; i < sweep.Steps; i++ {
		v := sweep.Min + float64(i)*step
		cfg, err := r.configFor(sweep.Scene, sweep.Preset, map[string]float64{sweep.Param: v})
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		res, err := r.simulate(ctx, cfg, sim.Config{Viewport: cfg.Viewport(), Frames: sweep.Frames})
		if err != nil {
			return results, err
		}
		results = append(results, SweepResult{ParamValue: v, Metrics: res.Metrics})
		r.log().Debugf("sweep %d/%d: %s=%.4f", i+1, sweep.Steps, sweep.Param, v)
	}
	return results, nil
}

// SeedStudy renders one scene under many random seeds to see how much its
// look depends on the seed.
type SeedStudy struct {
	Scene  string
	Preset string
	Trials int
	Frames int
	Seed   int64
}

type SeedResult struct {
	Seed      int64
	Luminance float64
	FrameMS   float64
}

func (r *Runner) RunSeeds(ctx context.Context, study *SeedStudy) ([]SeedResult, error) {
	if study.Trials < 1 || study.Frames < 1 {
		return nil, fmt.Errorf("seed study needs trials and frames: %w", dynamo.ErrInvalidConfig)
	}
	rng := rand.New(rand.NewSource(study.Seed))

	results := make([]SeedResult, 0, study.Trials)
	for range study.Trials {
		seed := rng.Int63n(1 << 31)
		cfg, err := r.configFor(study.Scene, study.Preset, map[string]float64{"seed": float64(seed)})
		if err != nil {
			return results, err
		}
		res, err := r.simulate(ctx, cfg, sim.Config{Viewport: cfg.Viewport(), Frames: study.Frames})
		if err != nil {
			return results, err
		}
		results = append(results, SeedResult{
			Seed:      seed,
			Luminance: res.Metrics["luminance"],
			FrameMS:   res.Metrics["frame_ms"],
		})
	}
	return results, nil
}

var errNoSeeds = errors.New("no seed results")

// SeedStats returns the mean and standard deviation of per-run mean luminance.
func SeedStats(results []SeedResult) (mean, stddev float64, err error) {
	if len(results) == 0 {
		return 0, 0, errNoSeeds
	}
	for _, r := range results {
		mean += r.Luminance
	}
	mean /= float64(len(results))
	for _, r := range results {
		d := r.Luminance - mean
		stddev += d * d
	}
	return mean, math.Sqrt(stddev / float64(len(results))), nil
}
