package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/metrics"
	"github.com/san-kum/genviz/internal/scene"
)

type Simulator struct {
	scene     scene.Scene
	metrics   metrics.Set
	observers []Observer
}

func New(s scene.Scene) *Simulator {
	return &Simulator{
		scene:     s,
		metrics:   make(metrics.Set, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Run sizes the scene, drives cfg.Frames frames and releases the scene.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	defer s.scene.Release()

	result := &Result{
		Scene:   s.scene.Name(),
		Timings: make([]float64, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	if err := s.scene.Resize(cfg.Viewport); err != nil {
		return nil, err
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.PauseAt > 0 && i == cfg.PauseAt {
			s.scene.SetRunning(false)
		}

		start := time.Now()
		scene.Frame(s.scene)
		elapsed := time.Since(start)

		s.metrics.Observe(s.scene, elapsed)
		for _, obs := range s.observers {
			obs.OnFrame(s.scene, i)
		}

		result.StepsTaken++
		result.Timings = append(result.Timings, float64(elapsed)/float64(time.Millisecond))

		last := i == cfg.Frames-1
		if last || (cfg.Every > 0 && (i+1)%cfg.Every == 0) {
			if snap := s.scene.Surface().Snapshot(); snap != nil {
				result.Snapshots = append(result.Snapshots, snap)
			}
		}
	}

	for k, v := range s.metrics.Values() {
		result.Metrics[k] = v
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive: %w", dynamo.ErrInvalidConfig)
	}
	if cfg.Every < 0 {
		return fmt.Errorf("snapshot stride must not be negative: %w", dynamo.ErrInvalidConfig)
	}
	if cfg.Viewport.Empty() {
		return fmt.Errorf("viewport %vx%v: %w", cfg.Viewport.Width, cfg.Viewport.Height, dynamo.ErrDegenerateGeometry)
	}
	return nil
}

// RunWithCallback drives frames until callback returns false or the context
// ends. The scene is left sized and is not released.
func (s *Simulator) RunWithCallback(ctx context.Context, vp dynamo.Viewport, callback func(s scene.Scene, frame int) bool) error {
	if vp.Empty() {
		return fmt.Errorf("viewport %vx%v: %w", vp.Width, vp.Height, dynamo.ErrDegenerateGeometry)
	}
	if err := s.scene.Resize(vp); err != nil {
		return err
	}

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		scene.Frame(s.scene)

		if !callback(s.scene, i) {
			return nil
		}
	}
}
