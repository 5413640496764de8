package ember

import (
	"math"
	"math/rand"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/resources"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/surface"
	"github.com/sirupsen/logrus"
)

const Name = "ember"

type Options struct {
	Variant Variant
	Count   int
	Seed    int64
	// FPS converts frames to wall time for the background animation.
	FPS  int
	Wash bool
}

func DefaultOptions() Options {
	return Options{Variant: Rainbow, Count: 40, Seed: 3, FPS: 60, Wash: true}
}

// washBlob is one radial light in the background wash. Positions are
// fractions of the surface, radius a fraction of its larger side.
type washBlob struct {
	X, Y, R  float64
	Color    colorful.Color
	Alpha    float64
	Mid      float64
	MidAlpha float64
	Fade     float64
}

var washes = map[Variant][]washBlob{
	Warm: {
		{0.20, 0.20, 0.70, rgb(255, 199, 150), 0.22, 0.38, 0.08, 0.62},
		{0.80, 0.70, 0.70, rgb(255, 160, 120), 0.20, 0.42, 0.06, 0.66},
		{0.40, 0.85, 0.65, rgb(255, 190, 140), 0.18, 0.40, 0.05, 0.65},
	},
	Rainbow: {
		{0.15, 0.20, 0.70, colorful.Hsl(20, 0.90, 0.70), 0.20, 0.35, 0.06, 0.60},
		{0.85, 0.65, 0.70, colorful.Hsl(200, 0.85, 0.70), 0.20, 0.40, 0.06, 0.65},
		{0.40, 0.85, 0.70, colorful.Hsl(300, 0.75, 0.72), 0.18, 0.40, 0.05, 0.65},
	},
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Field is the ember scene.
type Field struct {
	scene.Base
	opts   Options
	embers []Ember
	noise  Noise
	glow   resources.Keyframes
	t      float64
}

// New seeds the embers and registers the background keyframes on reg, or on
// the process registry when reg is nil.
func New(opts Options, reg *resources.Registry, log *logrus.Entry) *Field {
	if opts.Variant == "" {
		opts.Variant = Rainbow
	}
	if opts.Count < 0 {
		opts.Count = 0
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if reg == nil {
		reg = resources.Default()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	embers := make([]Ember, opts.Count)
	for i := range embers {
		embers[i] = Spawn(rng, opts.Variant)
	}
	return &Field{
		Base:   scene.NewBase(Name, log),
		opts:   opts,
		embers: embers,
		noise:  NewNoise(opts.Seed),
		glow:   resources.EnsureWarmGlow(reg),
	}
}

// Embers returns a copy of the current embers.
func (f *Field) Embers() []Ember { return append([]Ember(nil), f.embers...) }

// Resize keeps the embers; their positions are normalized.
func (f *Field) Resize(vp dynamo.Viewport) error { return f.Allocate(vp) }

// Step drifts every ember while running.
func (f *Field) Step() {
	if !f.Running() {
		return
	}
	vp := f.Viewport()
	for i := range f.embers {
		Drift(&f.embers[i], f.noise, f.t, vp.Width, vp.Height)
	}
	f.t++
}

func (f *Field) elapsed() time.Duration {
	return time.Duration(f.t / float64(f.opts.FPS) * float64(time.Second))
}

func (f *Field) Render() {
	if !f.Ready() {
		return
	}
	s := f.Surface()
	vp := f.Viewport()
	s.Clear()
	if f.opts.Wash {
		f.paintWash(s, vp)
	}

	for _, e := range f.embers {
		px, py := e.Pos.X*vp.Width, e.Pos.Y*vp.Height
		a0 := e.Alpha * Flicker(f.t, px, py)

		inner := surface.NewGradient(
			surface.Stop{Offset: 0, Color: surface.HSLA(e.Hue, 0.95, 0.62, a0)},
			surface.Stop{Offset: 0.4, Color: surface.HSLA(e.Hue, 0.90, 0.55, a0*0.55)},
			surface.Stop{Offset: 1, Color: surface.Transparent},
		)
		s.FillRadial(px, py, e.Radius, e.Radius, inner, surface.Lighter)

		r2 := e.Radius * 1.18
		outer := surface.NewGradient(
			surface.Stop{Offset: 0, Color: surface.HSLA(e.Hue2, 0.90, 0.60, a0*0.8)},
			surface.Stop{Offset: 0.5, Color: surface.HSLA(e.Hue2, 0.85, 0.52, a0*0.38)},
			surface.Stop{Offset: 1, Color: surface.Transparent},
		)
		s.FillRadial(px, py, r2, r2, outer, surface.Lighter)
	}
}

func (f *Field) paintWash(s *surface.Surface, vp dynamo.Viewport) {
	k := f.glow.Sample(f.elapsed())
	side := math.Max(vp.Width, vp.Height)
	for _, b := range washes[f.opts.Variant] {
		h, sat, l := b.Color.Hsl()
		c := colorful.Hsl(math.Mod(h+k.HueShift, 360), math.Min(1, sat*k.Saturate), l).Clamped()
		col := surface.FromColorful(c, 1)

		cx := (b.X + k.TranslateX) * vp.Width
		cy := (b.Y + k.TranslateY) * vp.Height
		r := b.R * side * k.Scale
		g := surface.NewGradient(
			surface.Stop{Offset: 0, Color: col.WithAlpha(b.Alpha)},
			surface.Stop{Offset: b.Mid, Color: col.WithAlpha(b.MidAlpha)},
			surface.Stop{Offset: b.Fade, Color: surface.Transparent},
		)
		s.FillRadial(cx, cy, r, r*b.Fade, g, surface.SourceOver)
	}
}

var _ scene.Scene = (*Field)(nil)
