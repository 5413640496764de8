package optim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/genviz/internal/aura"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/metrics"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/sim"
)

var cfg = sim.Config{Viewport: dynamo.NewViewport(24, 12, 1), Frames: 3}

// constant reports a fixed value so the search outcome is known.
type constant struct {
	v float64
}

func (c *constant) Name() string                       { return "score" }
func (c *constant) Observe(scene.Scene, time.Duration) {}
func (c *constant) Value() float64                     { return c.v }
func (c *constant) Reset()                             {}

func builder(score func(map[string]float64) float64) Builder {
	return func(params map[string]float64) (*sim.Simulator, error) {
		s := sim.New(aura.New(aura.Options{Count: 4, Seed: 1}, nil))
		s.AddMetric(&constant{v: score(params)})
		return s, nil
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Linspace = %v", got)
		}
	}
	if got := Linspace(3, 9, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("single point = %v", got)
	}
}

func TestGridSearchMinimize(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2, 3}, {10, 20}})
	score := func(p map[string]float64) float64 { return (p["a"]-2)*(p["a"]-2) + p["b"] }

	best, val, trials, err := g.Search(context.Background(), builder(score), cfg, "score")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 6 {
		t.Errorf("trials = %d, want 6", len(trials))
	}
	if best["a"] != 2 || best["b"] != 10 || val != 10 {
		t.Errorf("best = %v (%v)", best, val)
	}
}

func TestGridSearchMaximize(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{1, 5, 3}})
	g.Maximize = true
	best, val, _, err := g.Search(context.Background(), builder(func(p map[string]float64) float64 { return p["a"] }), cfg, "score")
	if err != nil {
		t.Fatal(err)
	}
	if best["a"] != 5 || val != 5 {
		t.Errorf("best = %v (%v)", best, val)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{1, 2}})
	build := func(p map[string]float64) (*sim.Simulator, error) {
		if p["a"] == 1 {
			return nil, errors.New("boom")
		}
		return builder(func(map[string]float64) float64 { return 7 })(p)
	}
	best, _, trials, err := g.Search(context.Background(), build, cfg, "score")
	if err != nil {
		t.Fatal(err)
	}
	if best["a"] != 2 {
		t.Errorf("best = %v", best)
	}
	if trials[0].Err == nil {
		t.Error("failed trial not recorded")
	}
}

func TestGridSearchErrors(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{1}})
	_, _, _, err := g.Search(context.Background(), builder(func(map[string]float64) float64 { return 0 }), cfg, "missing")
	if !errors.Is(err, ErrNoTrials) {
		t.Errorf("expected ErrNoTrials, got %v", err)
	}

	if _, _, _, err := NewGridSearch([]string{"a", "b"}, [][]float64{{1}}).Search(context.Background(), nil, cfg, "x"); err == nil {
		t.Error("expected mismatch error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := g.Search(ctx, builder(func(map[string]float64) float64 { return 0 }), cfg, "score"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

var _ metrics.Metric = (*constant)(nil)
