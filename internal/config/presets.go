package config

import (
	"sort"

	"github.com/san-kum/genviz/internal/fractal"
)

func landmark(name string) func(*Config) {
	return func(c *Config) {
		cam := fractal.Landmarks[name].Camera()
		c.Fractal.CenterX, c.Fractal.CenterY, c.Fractal.Scale = cam.CX, cam.CY, cam.Scale
	}
}

var Presets = map[string]map[string]func(*Config){
	"fractal": {
		"home":     landmark("home"),
		"seahorse": landmark("seahorse"),
		"elephant": landmark("elephant"),
		"spiral": func(c *Config) {
			landmark("spiral")(c)
			c.Fractal.MaxIter = 400
		},
		"triple": func(c *Config) {
			landmark("triple")(c)
			c.Fractal.MaxIter = 300
		},
		"dragon": landmark("dragon"),
	},
	"automaton": {
		"rule30":  func(c *Config) { c.Automaton.Rule = 30 },
		"rule90":  func(c *Config) { c.Automaton.Rule = 90 },
		"rule110": func(c *Config) { c.Automaton.Rule = 110 },
		"fine": func(c *Config) {
			c.Automaton.Cell = 2
			c.Automaton.BatchRows = 8
		},
	},
	"flowfield": {
		"calm": func(c *Config) {
			c.Flow.Count = 200
			c.Flow.Speed = 1.8
		},
		"dense": func(c *Config) {
			c.Flow.Count = 900
			c.Flow.TrailAlpha = 0.04
		},
		"ink":   func(c *Config) { c.Flow.ParticleBlend = "over" },
		"euler": func(c *Config) { c.Flow.Integrator = "euler" },
	},
	"cosmos": {
		"sparse": func(c *Config) { c.Cosmos.Density = 0.4 },
		"dense":  func(c *Config) { c.Cosmos.Density = 1.8 },
		"blue":   func(c *Config) { c.Cosmos.CoolChance = 0.5 },
	},
	"ember": {
		"rainbow": func(c *Config) { c.Ember.Variant = "rainbow" },
		"warm":    func(c *Config) { c.Ember.Variant = "warm" },
		"bare":    func(c *Config) { c.Ember.Wash = false },
	},
	"aura": {
		"dense": func(c *Config) { c.Aura.Count = 150 },
	},
}

// GetPreset returns the default config with a preset applied, or nil.
func GetPreset(scene, preset string) *Config {
	cfg := DefaultConfig()
	if !ApplyPreset(cfg, scene, preset) {
		return nil
	}
	cfg.Scene = scene
	return cfg
}

// ApplyPreset mutates cfg in place and reports whether the preset exists.
func ApplyPreset(cfg *Config, scene, preset string) bool {
	scenePresets, ok := Presets[scene]
	if !ok {
		return false
	}
	apply, ok := scenePresets[preset]
	if !ok {
		return false
	}
	apply(cfg)
	return true
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
