package surface

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/san-kum/genviz/internal/dynamo"
)

func mustSurface(t *testing.T, w, h, scale float64) *Surface {
	t.Helper()
	s, err := New(dynamo.NewViewport(w, h, scale))
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	return s
}

func TestNew_Degenerate(t *testing.T) {
	for _, vp := range []dynamo.Viewport{
		dynamo.NewViewport(0, 10, 1),
		dynamo.NewViewport(10, 0, 1),
		{},
	} {
		s, err := New(vp)
		if !errors.Is(err, dynamo.ErrSurfaceUnavailable) {
			t.Errorf("viewport %+v: expected ErrSurfaceUnavailable, got %v", vp, err)
		}
		if s.Available() {
			t.Errorf("viewport %+v: nil surface reported available", vp)
		}
		// Drawing on an unavailable surface is a no-op, not a panic.
		s.Fill(RGB255(255, 255, 255, 1), SourceOver)
		s.FillRadial(1, 1, 2, 2, NewGradient(Stop{0, RGB255(1, 1, 1, 1)}), Lighter)
		s.DrawRotated90(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	}
}

func TestSurface_DeviceScale(t *testing.T) {
	s := mustSurface(t, 10, 5, 2)
	if b := s.Image().Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("expected 20x10 device raster, got %v", b)
	}
	s.FillRect(0, 0, 1, 1, RGB255(255, 0, 0, 1), Copy)
	for _, p := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if c := s.Image().RGBAAt(p.X, p.Y); c.R != 255 {
			t.Errorf("device pixel %v not painted: %v", p, c)
		}
	}
	if c := s.Image().RGBAAt(2, 0); c.R != 0 {
		t.Errorf("pixel outside logical rect painted: %v", c)
	}
}

func TestSurface_Blending(t *testing.T) {
	tests := []struct {
		name string
		base Color
		src  Color
		op   Op
		want uint8
	}{
		{"over opaque", RGB255(0, 0, 0, 1), RGB255(255, 255, 255, 1), SourceOver, 255},
		{"over half", RGB255(0, 0, 0, 1), RGB255(255, 255, 255, 0.5), SourceOver, 128},
		{"lighter sums", RGB255(100, 100, 100, 1), RGB255(100, 100, 100, 1), Lighter, 200},
		{"lighter saturates", RGB255(200, 200, 200, 1), RGB255(200, 200, 200, 1), Lighter, 255},
		{"copy replaces", RGB255(200, 200, 200, 1), RGB255(10, 10, 10, 1), Copy, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSurface(t, 2, 2, 1)
			s.Fill(tt.base, Copy)
			s.Fill(tt.src, tt.op)
			if got := s.Image().RGBAAt(0, 0).R; got != tt.want {
				t.Errorf("R = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGradient_At(t *testing.T) {
	g := NewGradient(
		Stop{1, RGB255(0, 0, 0, 0)},
		Stop{0, RGB255(255, 255, 255, 1)},
	)
	if c := g.At(0); c.A != 1 {
		t.Errorf("expected opaque start, got %+v", c)
	}
	if c := g.At(0.5); math.Abs(c.A-0.5) > 1e-9 || math.Abs(c.R-0.5) > 1e-9 {
		t.Errorf("expected midpoint interpolation, got %+v", c)
	}
	if c := g.At(2); c.A != 0 {
		t.Errorf("expected clamped end stop, got %+v", c)
	}
	if c := (Gradient{}).At(0.3); c != Transparent {
		t.Errorf("expected transparent for empty gradient, got %+v", c)
	}
}

func TestSurface_FillRadial(t *testing.T) {
	s := mustSurface(t, 21, 21, 1)
	g := NewGradient(Stop{0, RGB255(255, 255, 255, 1)}, Stop{1, RGB255(255, 255, 255, 0)})
	s.FillRadial(10.5, 10.5, 10, 10, g, Lighter)

	centre := s.Image().RGBAAt(10, 10)
	if centre.R < 250 {
		t.Errorf("expected bright centre, got %v", centre)
	}
	if corner := s.Image().RGBAAt(0, 0); corner != (color.RGBA{}) {
		t.Errorf("expected untouched corner, got %v", corner)
	}
	edge := s.Image().RGBAAt(19, 10)
	if edge.R >= centre.R {
		t.Errorf("expected falloff towards the edge: centre %v edge %v", centre, edge)
	}
}

func TestSurface_DrawRotated90(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src.SetRGBA(3, 0, color.RGBA{G: 255, A: 255})

	s := mustSurface(t, 4, 4, 1)
	s.DrawRotated90(src)

	// Clockwise: top-left moves to top-right, top-right to bottom-right.
	if c := s.Image().RGBAAt(3, 0); c.R != 255 {
		t.Errorf("expected red at (3,0), got %v", c)
	}
	if c := s.Image().RGBAAt(3, 3); c.G != 255 {
		t.Errorf("expected green at (3,3), got %v", c)
	}
	if c := s.Image().RGBAAt(0, 0); c.A != 0 {
		t.Errorf("expected transparent at (0,0), got %v", c)
	}
}

func TestSurface_StrokePolyline(t *testing.T) {
	s := mustSurface(t, 10, 10, 1)
	ink := RGB255(255, 255, 255, 0.5)
	s.StrokePolyline([]dynamo.Vec2{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 5, Y: 5}}, ink, SourceOver)

	// The shared vertex must not be double-blended.
	if a, b := s.Image().RGBAAt(5, 1), s.Image().RGBAAt(3, 1); a != b {
		t.Errorf("vertex %v differs from segment pixel %v", a, b)
	}
	if c := s.Image().RGBAAt(5, 4); c.A == 0 {
		t.Error("expected second segment painted")
	}
}

func TestSurface_ReleaseAndSnapshot(t *testing.T) {
	s := mustSurface(t, 3, 3, 1)
	s.Fill(RGB255(9, 9, 9, 1), Copy)
	snap := s.Snapshot()
	s.Release()
	if s.Available() {
		t.Error("released surface still available")
	}
	if snap.RGBAAt(1, 1).R != 9 {
		t.Error("snapshot does not survive release")
	}
	if s.Snapshot() != nil {
		t.Error("expected nil snapshot after release")
	}
}

func TestSurface_Luminance(t *testing.T) {
	s := mustSurface(t, 4, 4, 1)
	s.Fill(RGB255(255, 255, 255, 1), Copy)
	if l := s.Luminance(s.Image().Rect); math.Abs(l-1) > 1e-9 {
		t.Errorf("expected luminance 1, got %f", l)
	}
	s.Clear()
	if l := s.Luminance(s.Image().Rect); l != 0 {
		t.Errorf("expected luminance 0 after clear, got %f", l)
	}
}
