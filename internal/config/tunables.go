package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrUnknownParam = errors.New("unknown parameter")

// Tunables are the numeric knobs that sweeps and searches may turn, keyed
// by "<section>.<field>".
var Tunables = map[string]func(*Config, float64){
	"seed":               func(c *Config, v float64) { c.Seed = int64(v) },
	"fps":                func(c *Config, v float64) { c.FPS = int(v) },
	"pixel_ratio":        func(c *Config, v float64) { c.PixelRatio = v },
	"fractal.max_iter":   func(c *Config, v float64) { c.Fractal.MaxIter = int(v) },
	"fractal.workers":    func(c *Config, v float64) { c.Fractal.Workers = int(v) },
	"fractal.scale":      func(c *Config, v float64) { c.Fractal.Scale = v },
	"fractal.zoom_decay": func(c *Config, v float64) { c.Fractal.ZoomDecay = v },
	"automaton.rule":     func(c *Config, v float64) { c.Automaton.Rule = int(v) },
	"automaton.cell":     func(c *Config, v float64) { c.Automaton.Cell = v },
	"automaton.batch_rows": func(c *Config, v float64) {
		c.Automaton.BatchRows = int(v)
	},
	"flowfield.count":       func(c *Config, v float64) { c.Flow.Count = int(v) },
	"flowfield.speed":       func(c *Config, v float64) { c.Flow.Speed = v },
	"flowfield.dt":          func(c *Config, v float64) { c.Flow.Dt = v },
	"flowfield.trail_alpha": func(c *Config, v float64) { c.Flow.TrailAlpha = v },
	"cosmos.density":        func(c *Config, v float64) { c.Cosmos.Density = v },
	"cosmos.twinkle_rate":   func(c *Config, v float64) { c.Cosmos.TwinkleRate = v },
	"cosmos.cool_chance":    func(c *Config, v float64) { c.Cosmos.CoolChance = v },
	"ember.count":           func(c *Config, v float64) { c.Ember.Count = int(v) },
	"aura.count":            func(c *Config, v float64) { c.Aura.Count = int(v) },
}

// SetParam applies one tunable. Integer fields truncate toward zero.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := Tunables[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownParam)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("parameter %q: non-finite value", name)
	}
	set(c, v)
	return nil
}

// SetParams applies params in name order so results do not depend on map
// iteration.
func (c *Config) SetParams(params map[string]float64) error {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := c.SetParam(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

func ListTunables() []string {
	names := make([]string, 0, len(Tunables))
	for k := range Tunables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
