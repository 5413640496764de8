package surface

import (
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha colour with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB255 builds a colour from 8-bit channels and an alpha in [0, 1].
func RGB255(r, g, b uint8, a float64) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: clamp01(a)}
}

// HSLA builds a colour from hue in degrees, saturation and lightness in [0, 1].
func HSLA(h, s, l, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped()
	return FromColorful(c, a)
}

// FromColorful converts a go-colorful colour.
func FromColorful(c colorful.Color, a float64) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: clamp01(a)}
}

// WithAlpha returns c with a replaced alpha.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Transparent is fully transparent black.
var Transparent = Color{}

// Stop is a gradient colour stop; Offset is in [0, 1].
type Stop struct {
	Offset float64
	Color  Color
}

// Gradient is an ordered list of stops interpolated linearly in straight alpha.
type Gradient []Stop

// NewGradient sorts the stops by offset.
func NewGradient(stops ...Stop) Gradient {
	g := Gradient(stops)
	sort.SliceStable(g, func(i, j int) bool { return g[i].Offset < g[j].Offset })
	return g
}

// At samples the gradient at t, clamped to the end stops.
func (g Gradient) At(t float64) Color {
	switch len(g) {
	case 0:
		return Transparent
	case 1:
		return g[0].Color
	}
	if t <= g[0].Offset {
		return g[0].Color
	}
	last := g[len(g)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(g); i++ {
		if t > g[i].Offset {
			continue
		}
		a, b := g[i-1], g[i]
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		f := (t - a.Offset) / span
		return Color{
			R: lerp(a.Color.R, b.Color.R, f),
			G: lerp(a.Color.G, b.Color.G, f),
			B: lerp(a.Color.B, b.Color.B, f),
			A: lerp(a.Color.A, b.Color.A, f),
		}
	}
	return last.Color
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
