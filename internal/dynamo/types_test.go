package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestViewport_DeviceSize(t *testing.T) {
	tests := []struct {
		name   string
		vp     Viewport
		w, h   int
		empty  bool
		aspect float64
	}{
		{"unit scale", NewViewport(640, 360, 1), 640, 360, false, 640.0 / 360.0},
		{"retina", NewViewport(640, 360, 2), 1280, 720, false, 640.0 / 360.0},
		{"zero scale defaults", NewViewport(10, 5, 0), 10, 5, false, 2},
		{"zero height", NewViewport(10, 0, 1), 10, 0, true, 0},
		{"negative width", NewViewport(-4, 5, 1), 0, 5, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.vp.DeviceSize()
			if w != tt.w || h != tt.h {
				t.Errorf("DeviceSize() = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
			if got := tt.vp.Empty(); got != tt.empty {
				t.Errorf("Empty() = %v, want %v", got, tt.empty)
			}
			if got := tt.vp.Aspect(); math.Abs(got-tt.aspect) > 1e-12 {
				t.Errorf("Aspect() = %f, want %f", got, tt.aspect)
			}
		})
	}
}

func TestVec2(t *testing.T) {
	v := Vec2{3, 4}
	if v.Len() != 5 {
		t.Errorf("expected length 5, got %f", v.Len())
	}
	if got := v.Add(Vec2{1, 1}).Sub(Vec2{2, 2}).Scale(2); got != (Vec2{4, 6}) {
		t.Errorf("unexpected arithmetic result %+v", got)
	}
	if (Vec2{math.NaN(), 0}).IsValid() {
		t.Error("NaN vector reported valid")
	}
	if !(Vec2{-5, 105}).In(100, 100, 10) {
		t.Error("point inside margin reported outside")
	}
	if (Vec2{-11, 50}).In(100, 100, 10) {
		t.Error("point beyond margin reported inside")
	}
}

func TestParallelFor_CoversRangeOnce(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1023} {
		hits := make([]int32, n)
		ParallelForN(n, 8, 4, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestTrigTable(t *testing.T) {
	for x := -10.0; x < 10; x += 0.37 {
		if d := math.Abs(FastSin(x) - math.Sin(x)); d > 1e-5 {
			t.Fatalf("sin(%f) error %g", x, d)
		}
		if d := math.Abs(FastCos(x) - math.Cos(x)); d > 1e-5 {
			t.Fatalf("cos(%f) error %g", x, d)
		}
	}
	if FastSin(math.Inf(1)) != 0 {
		t.Error("expected 0 for infinite input")
	}
}

func TestSceneError_Unwrap(t *testing.T) {
	err := &SceneError{Scene: "fractal", Op: "resize", Wrapped: ErrDegenerateGeometry}
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Error("expected errors.Is to match wrapped sentinel")
	}
	if err.Error() != "fractal resize: dynamo: degenerate geometry" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
