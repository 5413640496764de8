package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/metrics"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/surface"
)

type counter struct {
	scene.Base
	steps    int
	released int
}

func newCounter() *counter { return &counter{Base: scene.NewBase("counter", nil)} }

func (c *counter) Resize(vp dynamo.Viewport) error { return c.Allocate(vp) }

func (c *counter) Step() {
	if c.Running() {
		c.steps++
	}
}

func (c *counter) Render() {
	if !c.Ready() {
		return
	}
	c.Surface().Clear()
	c.Surface().FillRect(0, 0, float64(c.steps), 1, surface.RGB255(255, 255, 255, 1), surface.Copy)
}

func (c *counter) Release() {
	c.released++
	c.Base.Release()
}

var vp = dynamo.NewViewport(16, 4, 1)

func TestSimulatorRun(t *testing.T) {
	c := newCounter()
	sim := New(c)

	result, err := sim.Run(context.Background(), Config{Viewport: vp, Frames: 10, Every: 4})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 || len(result.Timings) != 10 {
		t.Errorf("steps=%d timings=%d", result.StepsTaken, len(result.Timings))
	}
	// frames 4, 8 and the last one
	if len(result.Snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(result.Snapshots))
	}
	if got := result.Last().RGBAAt(9, 0).R; got != 255 {
		t.Errorf("last snapshot pixel = %d, want 255", got)
	}
	if got := result.Snapshots[0].RGBAAt(4, 0).R; got != 0 {
		t.Errorf("first snapshot should stop at 4 steps")
	}
	if c.released != 1 {
		t.Errorf("released %d times", c.released)
	}
}

func TestSimulatorPauseAt(t *testing.T) {
	c := newCounter()
	if _, err := New(c).Run(context.Background(), Config{Viewport: vp, Frames: 10, PauseAt: 6}); err != nil {
		t.Fatal(err)
	}
	if c.steps != 6 {
		t.Errorf("steps = %d, want 6", c.steps)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero frames", Config{Viewport: vp}, dynamo.ErrInvalidConfig},
		{"negative stride", Config{Viewport: vp, Frames: 1, Every: -1}, dynamo.ErrInvalidConfig},
		{"empty viewport", Config{Frames: 1}, dynamo.ErrDegenerateGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(newCounter()).Run(context.Background(), tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := New(newCounter()).Run(ctx, Config{Viewport: vp, Frames: 5})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if res.StepsTaken != 0 {
		t.Errorf("steps = %d", res.StepsTaken)
	}
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	sim := New(newCounter())
	ft := metrics.NewFrameTime()
	sim.AddMetric(ft)
	seen := 0
	sim.AddObserver(ObserverFunc(func(s scene.Scene, frame int) {
		if frame != seen {
			t.Errorf("frame %d out of order", frame)
		}
		seen++
	}))

	result, err := sim.Run(context.Background(), Config{Viewport: vp, Frames: 7})
	if err != nil {
		t.Fatal(err)
	}
	if seen != 7 {
		t.Errorf("observer saw %d frames", seen)
	}
	if _, ok := result.Metrics[ft.Name()]; !ok {
		t.Error("metric not found in result")
	}
	if len(ft.Samples()) != 7 {
		t.Errorf("expected 7 observations, got %d", len(ft.Samples()))
	}
}

func TestRunWithCallback(t *testing.T) {
	c := newCounter()
	n := 0
	err := New(c).RunWithCallback(context.Background(), vp, func(s scene.Scene, frame int) bool {
		n++
		return frame < 4
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || c.steps != 5 {
		t.Errorf("callbacks=%d steps=%d", n, c.steps)
	}
}

func TestBatchRun(t *testing.T) {
	jobs := make([]Job, 4)
	for i := range jobs {
		jobs[i] = Job{
			Name:    "counter",
			Build:   func() (scene.Scene, error) { return newCounter(), nil },
			Metrics: func() []metrics.Metric { return []metrics.Metric{metrics.NewBudget(60)} },
		}
	}
	results, err := NewBatch(jobs, 2).Run(context.Background(), Config{Viewport: vp, Frames: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r == nil || r.StepsTaken != 3 {
			t.Errorf("job %d: %+v", i, r)
		}
	}
}

func TestBatchFailureCancels(t *testing.T) {
	boom := errors.New("boom")
	slow := func() (scene.Scene, error) { return newCounter(), nil }
	jobs := []Job{
		{Name: "bad", Build: func() (scene.Scene, error) { return nil, boom }},
		{Name: "slow", Build: slow},
	}
	start := time.Now()
	_, err := NewBatch(jobs, 0).Run(context.Background(), Config{Viewport: vp, Frames: 1 << 20})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if time.Since(start) > 30*time.Second {
		t.Error("remaining jobs were not cancelled")
	}
}
