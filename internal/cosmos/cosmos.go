// Package cosmos draws a twinkling starfield over a baked nebula wash.
package cosmos

import (
	"math"
	"math/rand"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/surface"
	"github.com/sirupsen/logrus"
)

const Name = "cosmos"

type Options struct {
	Density     float64
	AreaPerStar float64
	AreaPerDust float64
	CoolChance  float64
	TwinkleRate float64
	Seed        int64
}

func DefaultOptions() Options {
	return Options{
		Density:     0.9,
		AreaPerStar: 12000,
		AreaPerDust: 22000,
		CoolChance:  0.1,
		TwinkleRate: 0.006,
		Seed:        7,
	}
}

var (
	coolTint = surface.RGB255(190, 210, 255, 1)
	paleTint = surface.RGB255(230, 235, 255, 1)
	dust     = surface.RGB255(255, 255, 255, 0.02)
)

type Star struct {
	Pos        dynamo.Vec2
	Radius     float64
	Brightness float64
	Phase      float64
	Color      surface.Color
}

// StarCount scales with surface area.
func StarCount(w, h, density, areaPerStar float64) int {
	if w <= 0 || h <= 0 || areaPerStar <= 0 || density <= 0 {
		return 0
	}
	return int(math.Floor(w * h / areaPerStar * density))
}

// BlobCount is the number of nebula washes for a w x h surface.
func BlobCount(w, h float64) int {
	return max(3, int(math.Floor((w+h)/900)))
}

// Twinkle returns the star brightness at frame t.
func Twinkle(s Star, t, rate float64) float64 {
	return s.Brightness * (0.85 + 0.15*dynamo.FastSin(t*rate+s.Phase))
}

// Backdrop is the starfield scene. Stars and nebula are rebuilt on resize
// only, from the configured seed, so equal sizes give equal skies.
type Backdrop struct {
	scene.Base
	opts   Options
	stars  []Star
	nebula *surface.Surface
	t      float64
}

func New(opts Options, log *logrus.Entry) *Backdrop {
	if opts.AreaPerStar <= 0 {
		opts.AreaPerStar = 12000
	}
	if opts.AreaPerDust <= 0 {
		opts.AreaPerDust = 22000
	}
	if opts.TwinkleRate == 0 {
		opts.TwinkleRate = 0.006
	}
	return &Backdrop{Base: scene.NewBase(Name, log), opts: opts}
}

// Stars returns the current star set. It must not be modified.
func (b *Backdrop) Stars() []Star { return b.stars }

func (b *Backdrop) Resize(vp dynamo.Viewport) error {
	b.nebula.Release()
	b.nebula = nil
	b.stars = nil
	if err := b.Allocate(vp); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(b.opts.Seed))
	b.stars = makeStars(rng, vp.Width, vp.Height, b.opts)

	neb, err := surface.New(vp)
	if err != nil {
		return &dynamo.SceneError{Scene: Name, Op: "nebula", Wrapped: err}
	}
	paintNebula(neb, rng, vp.Width, vp.Height, b.opts.AreaPerDust)
	b.nebula = neb

	b.Log().WithField("stars", len(b.stars)).Debug("sky generated")
	return nil
}

func makeStars(rng *rand.Rand, w, h float64, o Options) []Star {
	n := StarCount(w, h, o.Density, o.AreaPerStar)
	stars := make([]Star, n)
	for i := range stars {
		s := &stars[i]
		s.Pos = dynamo.Vec2{X: rng.Float64() * w, Y: rng.Float64() * h}
		s.Radius = rng.Float64()*1.4 + 0.4
		s.Brightness = 0.5 + rng.Float64()*0.5
		s.Phase = rng.Float64() * 2 * math.Pi
		s.Color = paleTint
		if rng.Float64() < o.CoolChance {
			s.Color = coolTint
		}
	}
	return stars
}

func paintNebula(s *surface.Surface, rng *rand.Rand, w, h, areaPerDust float64) {
	m := math.Min(w, h)
	for i, n := 0, BlobCount(w, h); i < n; i++ {
		cx, cy := rng.Float64()*w, rng.Float64()*h
		r := rng.Float64()*m*0.6 + m*0.25
		hue := 210 + rng.Float64()*60
		sat := 25 + rng.Float64()*15
		a0 := 0.045 + rng.Float64()*0.035

		g := surface.NewGradient(
			surface.Stop{Offset: 0, Color: surface.HSLA(hue, sat/100, 0.62, a0)},
			surface.Stop{Offset: 1, Color: surface.HSLA(math.Trunc(hue+10), math.Trunc(sat-10)/100, 0.10, 0)},
		)
		s.FillRadial(cx, cy, r, r, g, surface.SourceOver)
	}
	for i := 0.0; i < w*h/areaPerDust; i++ {
		s.FillRect(rng.Float64()*w, rng.Float64()*h, 1, 1, dust, surface.SourceOver)
	}
}

// Step advances twinkle time while running.
func (b *Backdrop) Step() {
	if b.Running() {
		b.t++
	}
}

func (b *Backdrop) Render() {
	if !b.Ready() {
		return
	}
	s := b.Surface()
	s.Clear()
	s.DrawSurface(b.nebula)
	for _, st := range b.stars {
		tw := Twinkle(st, b.t, b.opts.TwinkleRate)
		g := surface.NewGradient(
			surface.Stop{Offset: 0, Color: st.Color.WithAlpha(0.9 * tw)},
			surface.Stop{Offset: 0.6, Color: st.Color.WithAlpha(0.35 * tw)},
			surface.Stop{Offset: 1, Color: st.Color.WithAlpha(0)},
		)
		s.FillRadial(st.Pos.X, st.Pos.Y, st.Radius*3.2, st.Radius*2.6, g, surface.Lighter)
	}
}

func (b *Backdrop) Release() {
	b.nebula.Release()
	b.nebula = nil
	b.stars = nil
	b.Base.Release()
}

var _ scene.Scene = (*Backdrop)(nil)
