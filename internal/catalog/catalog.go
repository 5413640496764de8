// Package catalog builds scenes by name from a config.
package catalog

import (
	"fmt"
	"sort"

	"github.com/san-kum/genviz/internal/aura"
	"github.com/san-kum/genviz/internal/automaton"
	"github.com/san-kum/genviz/internal/config"
	"github.com/san-kum/genviz/internal/cosmos"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/ember"
	"github.com/san-kum/genviz/internal/flowfield"
	"github.com/san-kum/genviz/internal/fractal"
	"github.com/san-kum/genviz/internal/resources"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/sirupsen/logrus"
)

type factory func(cfg *config.Config, reg *resources.Registry, log *logrus.Entry) (scene.Scene, error)

type Registry struct {
	scenes map[string]factory
	info   map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		scenes: make(map[string]factory),
		info:   make(map[string]string),
	}

	r.add(fractal.Name, "Mandelbrot set, slow auto-zoom, drag and wheel to explore",
		func(cfg *config.Config, _ *resources.Registry, log *logrus.Entry) (scene.Scene, error) {
			return fractal.New(FractalOptions(cfg), log), nil
		})
	r.add(automaton.Name, "elementary cellular automaton grown row by row",
		func(cfg *config.Config, _ *resources.Registry, log *logrus.Entry) (scene.Scene, error) {
			return automaton.New(AutomatonOptions(cfg), log), nil
		})
	r.add(flowfield.Name, "particles advected through a drifting vector field",
		func(cfg *config.Config, _ *resources.Registry, log *logrus.Entry) (scene.Scene, error) {
			s, err := flowfield.New(FlowOptions(cfg), log)
			if err != nil {
				return nil, err
			}
			return s, nil
		})
	r.add(cosmos.Name, "twinkling starfield over a nebula wash",
		func(cfg *config.Config, _ *resources.Registry, log *logrus.Entry) (scene.Scene, error) {
			return cosmos.New(CosmosOptions(cfg), log), nil
		})
	r.add(ember.Name, "wandering two-tone glows",
		func(cfg *config.Config, reg *resources.Registry, log *logrus.Entry) (scene.Scene, error) {
			opts, err := EmberOptions(cfg)
			if err != nil {
				return nil, err
			}
			return ember.New(opts, reg, log), nil
		})
	r.add(aura.Name, "hue-cycling drifting dots",
		func(cfg *config.Config, _ *resources.Registry, log *logrus.Entry) (scene.Scene, error) {
			return aura.New(aura.Options{Count: cfg.Aura.Count, Seed: cfg.Seed}, log), nil
		})

	return r
}

func (r *Registry) add(name, about string, f factory) {
	r.scenes[name] = f
	r.info[name] = about
}

// New builds the named scene. A nil registry uses the process default.
func (r *Registry) New(name string, cfg *config.Config, reg *resources.Registry, log *logrus.Entry) (scene.Scene, error) {
	f, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("scene %q: %w", name, dynamo.ErrUnknownScene)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if reg == nil {
		reg = resources.Default()
	}
	s, err := f(cfg, reg, log)
	if err != nil {
		return nil, &dynamo.SceneError{Scene: name, Op: "build", Wrapped: err}
	}
	s.SetRunning(cfg.Running)
	return s, nil
}

func (r *Registry) Describe(name string) string { return r.info[name] }

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Order is the display order used by hosts that cycle scenes.
var Order = []string{fractal.Name, flowfield.Name, automaton.Name, cosmos.Name, ember.Name, aura.Name}

func FractalOptions(cfg *config.Config) fractal.Options {
	o := fractal.DefaultOptions()
	f := cfg.Fractal
	o.Camera = fractal.Camera{CX: f.CenterX, CY: f.CenterY, Scale: f.Scale}
	o.MaxIter = f.MaxIter
	o.ZoomDecay = f.ZoomDecay
	o.CooldownFrames = f.Cooldown
	o.WheelRatio = f.WheelRatio
	if f.Workers > 0 {
		o.Workers = f.Workers
	}
	return o
}

func AutomatonOptions(cfg *config.Config) automaton.Options {
	o := automaton.DefaultOptions()
	a := cfg.Automaton
	o.Rule = uint8(a.Rule)
	o.Cell, o.Base, o.Gutter = a.Cell, a.Base, a.Gutter
	o.BatchEvery, o.BatchRows = a.BatchEvery, a.BatchRows
	return o
}

func FlowOptions(cfg *config.Config) flowfield.Options {
	o := flowfield.DefaultOptions()
	f := cfg.Flow
	o.Count, o.Dt, o.Speed = f.Count, f.Dt, f.Speed
	o.Integrator = f.Integrator
	o.Margin = f.Margin
	o.TrailAlpha = f.TrailAlpha
	o.ParticleBlend = f.ParticleBlend
	o.Seed = cfg.Seed
	return o
}

func CosmosOptions(cfg *config.Config) cosmos.Options {
	o := cosmos.DefaultOptions()
	o.Density = cfg.Cosmos.Density
	o.TwinkleRate = cfg.Cosmos.TwinkleRate
	o.CoolChance = cfg.Cosmos.CoolChance
	o.Seed = cfg.Seed
	return o
}

func EmberOptions(cfg *config.Config) (ember.Options, error) {
	v, err := ember.ParseVariant(cfg.Ember.Variant)
	if err != nil {
		return ember.Options{}, err
	}
	o := ember.DefaultOptions()
	o.Variant = v
	o.Count = cfg.Ember.Count
	o.Wash = cfg.Ember.Wash
	o.Seed = cfg.Seed
	o.FPS = cfg.FPS
	return o, nil
}
