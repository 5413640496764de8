package config

import (
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/genviz/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 960.0
	DefaultHeight     = 360.0
	DefaultPixelRatio = 1.0
	DefaultFPS        = 60
	DefaultScene      = "fractal"
)

type Config struct {
	Scene        string  `yaml:"scene" env:"GENVIZ_SCENE"`
	Width        float64 `yaml:"width" env:"GENVIZ_WIDTH"`
	Height       float64 `yaml:"height" env:"GENVIZ_HEIGHT"`
	PixelRatio   float64 `yaml:"pixel_ratio" env:"GENVIZ_PIXEL_RATIO"`
	FPS          int     `yaml:"fps" env:"GENVIZ_FPS"`
	Running      bool    `yaml:"running" env:"GENVIZ_RUNNING"`
	Seed         int64   `yaml:"seed" env:"GENVIZ_SEED"`
	AssetBaseURL string  `yaml:"asset_base_url" env:"GENVIZ_ASSET_BASE_URL"`
	LogLevel     string  `yaml:"log_level" env:"GENVIZ_LOG_LEVEL"`
	Theme        string  `yaml:"theme" env:"GENVIZ_THEME"`

	Fractal   FractalConfig   `yaml:"fractal" envPrefix:"GENVIZ_FRACTAL_"`
	Automaton AutomatonConfig `yaml:"automaton" envPrefix:"GENVIZ_AUTOMATON_"`
	Flow      FlowConfig      `yaml:"flowfield" envPrefix:"GENVIZ_FLOW_"`
	Cosmos    CosmosConfig    `yaml:"cosmos" envPrefix:"GENVIZ_COSMOS_"`
	Ember     EmberConfig     `yaml:"ember" envPrefix:"GENVIZ_EMBER_"`
	Aura      AuraConfig      `yaml:"aura" envPrefix:"GENVIZ_AURA_"`
}

type FractalConfig struct {
	CenterX    float64 `yaml:"center_x" env:"CENTER_X"`
	CenterY    float64 `yaml:"center_y" env:"CENTER_Y"`
	Scale      float64 `yaml:"scale" env:"SCALE"`
	MaxIter    int     `yaml:"max_iter" env:"MAX_ITER"`
	ZoomDecay  float64 `yaml:"zoom_decay" env:"ZOOM_DECAY"`
	Cooldown   int     `yaml:"cooldown" env:"COOLDOWN"`
	WheelRatio float64 `yaml:"wheel_ratio" env:"WHEEL_RATIO"`
	Workers    int     `yaml:"workers" env:"WORKERS"`
}

type AutomatonConfig struct {
	Rule       int     `yaml:"rule" env:"RULE"`
	Cell       float64 `yaml:"cell" env:"CELL"`
	Base       float64 `yaml:"base" env:"BASE"`
	Gutter     float64 `yaml:"gutter" env:"GUTTER"`
	BatchEvery int     `yaml:"batch_every" env:"BATCH_EVERY"`
	BatchRows  int     `yaml:"batch_rows" env:"BATCH_ROWS"`
}

type FlowConfig struct {
	Count         int     `yaml:"count" env:"COUNT"`
	Dt            float64 `yaml:"dt" env:"DT"`
	Speed         float64 `yaml:"speed" env:"SPEED"`
	Integrator    string  `yaml:"integrator" env:"INTEGRATOR"`
	Margin        float64 `yaml:"margin" env:"MARGIN"`
	TrailAlpha    float64 `yaml:"trail_alpha" env:"TRAIL_ALPHA"`
	ParticleBlend string  `yaml:"particle_blend" env:"PARTICLE_BLEND"`
}

type CosmosConfig struct {
	Density     float64 `yaml:"density" env:"DENSITY"`
	TwinkleRate float64 `yaml:"twinkle_rate" env:"TWINKLE_RATE"`
	CoolChance  float64 `yaml:"cool_chance" env:"COOL_CHANCE"`
}

type EmberConfig struct {
	Variant string `yaml:"variant" env:"VARIANT"`
	Count   int    `yaml:"count" env:"COUNT"`
	Wash    bool   `yaml:"wash" env:"WASH"`
}

type AuraConfig struct {
	Count int `yaml:"count" env:"COUNT"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      DefaultScene,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		PixelRatio: DefaultPixelRatio,
		FPS:        DefaultFPS,
		Running:    true,
		Seed:       1,
		LogLevel:   "info",
		Theme:      "paper",
		Fractal: FractalConfig{
			CenterX:    -0.5,
			Scale:      3.2,
			MaxIter:    140,
			ZoomDecay:  0.9997,
			Cooldown:   240,
			WheelRatio: 1.1,
			Workers:    dynamo.DefaultWorkers,
		},
		Automaton: AutomatonConfig{
			Rule:       30,
			Cell:       4,
			Base:       24,
			Gutter:     8,
			BatchEvery: 8,
			BatchRows:  4,
		},
		Flow: FlowConfig{
			Count:         300,
			Dt:            0.85,
			Speed:         3,
			Integrator:    "midpoint",
			Margin:        20,
			TrailAlpha:    0.06,
			ParticleBlend: "lighter",
		},
		Cosmos: CosmosConfig{
			Density:     0.9,
			TwinkleRate: 0.006,
			CoolChance:  0.1,
		},
		Ember: EmberConfig{
			Variant: "rainbow",
			Count:   40,
			Wash:    true,
		},
		Aura: AuraConfig{Count: 60},
	}
}

// Load reads a YAML file over the defaults, overlays GENVIZ_* environment
// variables and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv overlays environment variables onto cfg. Unset variables keep
// their current values.
func ParseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Viewport() dynamo.Viewport {
	return dynamo.NewViewport(c.Width, c.Height, c.PixelRatio)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), dynamo.ErrInvalidConfig)
}

func (c *Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return invalid("size %vx%v", c.Width, c.Height)
	case c.PixelRatio <= 0:
		return invalid("pixel ratio %v", c.PixelRatio)
	case c.FPS < 1 || c.FPS > 240:
		return invalid("fps %d", c.FPS)
	case c.Fractal.Scale <= 0:
		return invalid("fractal scale %v", c.Fractal.Scale)
	case c.Fractal.MaxIter < 1:
		return invalid("fractal max_iter %d", c.Fractal.MaxIter)
	case c.Fractal.ZoomDecay <= 0 || c.Fractal.ZoomDecay > 1:
		return invalid("fractal zoom_decay %v", c.Fractal.ZoomDecay)
	case c.Fractal.WheelRatio <= 1:
		return invalid("fractal wheel_ratio %v", c.Fractal.WheelRatio)
	case c.Automaton.Rule < 0 || c.Automaton.Rule > 255:
		return invalid("automaton rule %d", c.Automaton.Rule)
	case c.Automaton.Cell <= 0:
		return invalid("automaton cell %v", c.Automaton.Cell)
	case c.Automaton.BatchEvery < 1 || c.Automaton.BatchRows < 1:
		return invalid("automaton batch %d/%d", c.Automaton.BatchEvery, c.Automaton.BatchRows)
	case c.Flow.Count < 0 || c.Flow.Dt <= 0:
		return invalid("flowfield count %d dt %v", c.Flow.Count, c.Flow.Dt)
	case c.Flow.Margin < 0 || math.IsNaN(c.Flow.Margin):
		return invalid("flowfield margin %v", c.Flow.Margin)
	case c.Flow.TrailAlpha < 0 || c.Flow.TrailAlpha > 1:
		return invalid("flowfield trail_alpha %v", c.Flow.TrailAlpha)
	case c.Cosmos.Density < 0:
		return invalid("cosmos density %v", c.Cosmos.Density)
	case c.Ember.Count < 0 || c.Aura.Count < 0:
		return invalid("ember count %d aura count %d", c.Ember.Count, c.Aura.Count)
	}

	switch c.Flow.Integrator {
	case "euler", "midpoint", "rk2":
	default:
		return invalid("flowfield integrator %q", c.Flow.Integrator)
	}
	switch c.Flow.ParticleBlend {
	case "lighter", "over":
	default:
		return invalid("flowfield particle_blend %q", c.Flow.ParticleBlend)
	}
	switch c.Ember.Variant {
	case "rainbow", "warm":
	default:
		return invalid("ember variant %q", c.Ember.Variant)
	}
	return nil
}
