package fractal

import (
	"image"
	"math"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		maxIter int
		want    int
	}{
		{"origin stays bounded", 0, 0, 140, 140},
		{"far point escapes at once", 2, 2, 140, 1},
		{"main bulb", -0.5, 0, 500, 500},
		{"outside real axis", 1, 0, 140, 3},
		{"zero budget", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Escape(tt.x, tt.y, tt.maxIter)
			if got != tt.want {
				t.Errorf("Escape(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestShade(t *testing.T) {
	if g := Shade(140, 0, 140); g != 0 {
		t.Errorf("interior shade = %d, want 0", g)
	}

	iter, mag2 := Escape(2, 2, 140)
	if g := Shade(iter, mag2, 140); g < 250 {
		t.Errorf("fast escape shade = %d, want near white", g)
	}

	// Points closer to the boundary escape later and shade darker.
	near, nm := Escape(-0.75, 0.1, 140)
	far, fm := Escape(-2.5, 1.5, 140)
	if Shade(near, nm, 140) >= Shade(far, fm, 140) {
		t.Errorf("boundary shade not darker: %d >= %d", Shade(near, nm, 140), Shade(far, fm, 140))
	}
}

func TestShadeContinuous(t *testing.T) {
	prev := -1.0
	for i := 0; i < 50; i++ {
		x := -2.2 - float64(i)*0.001
		iter, mag2 := Escape(x, 0.3, 140)
		g := float64(Shade(iter, mag2, 140))
		if prev >= 0 && math.Abs(g-prev) > 8 {
			t.Fatalf("shade jumps from %v to %v at x=%v", prev, g, x)
		}
		prev = g
	}
}

func TestRasterizeMatchesSerial(t *testing.T) {
	cam := DefaultCamera()
	serial := image.NewRGBA(image.Rect(0, 0, 61, 37))
	parallel := image.NewRGBA(image.Rect(0, 0, 61, 37))

	Rasterize(serial, cam, 80, 1)
	Rasterize(parallel, cam, 80, 8)

	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Fatalf("pixel byte %d differs: %d vs %d", i, serial.Pix[i], parallel.Pix[i])
		}
	}
	for i := 3; i < len(serial.Pix); i += 4 {
		if serial.Pix[i] != 255 {
			t.Fatalf("alpha at %d = %d, want opaque", i, serial.Pix[i])
		}
	}
}

func TestRasterizeFormula(t *testing.T) {
	cam := Camera{CX: -0.6, CY: 0.2, Scale: 2.5}
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	Rasterize(img, cam, 60, 2)

	for _, p := range []image.Point{{0, 0}, {13, 7}, {39, 29}, {20, 15}} {
		x0, y0 := cam.PointAt(float64(p.X), float64(p.Y), 40, 30)
		iter, mag2 := Escape(x0, y0, 60)
		want := Shade(iter, mag2, 60)
		if got := img.RGBAAt(p.X, p.Y).R; got != want {
			t.Errorf("pixel %v = %d, want %d", p, got, want)
		}
	}
}

func TestRasterizeDegenerate(t *testing.T) {
	Rasterize(nil, DefaultCamera(), 10, 4)
	Rasterize(image.NewRGBA(image.Rectangle{}), DefaultCamera(), 10, 4)
}
