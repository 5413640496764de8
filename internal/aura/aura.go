// Package aura draws a handful of small hue-cycling dots drifting behind
// content.
package aura

import (
	"math"
	"math/rand"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/surface"
	"github.com/sirupsen/logrus"
)

const Name = "aura"

type Options struct {
	Count int
	Seed  int64
}

func DefaultOptions() Options {
	return Options{Count: 60, Seed: 5}
}

// Mote is a dot at a normalized position.
type Mote struct {
	Pos    dynamo.Vec2
	Radius float64
	Speed  float64
	Hue    float64
}

type Aura struct {
	scene.Base
	motes []Mote
	t     float64
}

func New(opts Options, log *logrus.Entry) *Aura {
	rng := rand.New(rand.NewSource(opts.Seed))
	motes := make([]Mote, max(0, opts.Count))
	for i := range motes {
		motes[i] = Mote{
			Pos:    dynamo.Vec2{X: rng.Float64(), Y: rng.Float64()},
			Radius: 1 + rng.Float64()*2.2,
			Speed:  0.4 + rng.Float64()*1.2,
			Hue:    math.Floor(rng.Float64() * 360),
		}
	}
	return &Aura{Base: scene.NewBase(Name, log), motes: motes}
}

func (a *Aura) Motes() []Mote { return append([]Mote(nil), a.motes...) }

func (a *Aura) Resize(vp dynamo.Viewport) error { return a.Allocate(vp) }

func (a *Aura) Step() {
	if !a.Running() {
		return
	}
	vp := a.Viewport()
	for i := range a.motes {
		m := &a.motes[i]
		x, y := m.Pos.X*vp.Width, m.Pos.Y*vp.Height
		m.Pos.X = wrap01(m.Pos.X + (math.Sin(a.t*0.01+x*0.002)+0.3)*0.0007*m.Speed)
		m.Pos.Y = wrap01(m.Pos.Y + (math.Cos(a.t*0.012+y*0.002)-0.1)*0.0007*m.Speed)
	}
	a.t++
}

func wrap01(v float64) float64 {
	switch {
	case v < 0:
		return 1
	case v > 1:
		return 0
	}
	return v
}

func (a *Aura) Render() {
	if !a.Ready() {
		return
	}
	s := a.Surface()
	vp := a.Viewport()
	s.Clear()
	for _, m := range a.motes {
		// 0.6 fill alpha under a 0.8 layer.
		c := surface.HSLA(m.Hue+a.t*0.3, 0.8, 0.6, 0.6*0.8)
		g := surface.Gradient{{Offset: 0, Color: c}}
		s.FillRadial(m.Pos.X*vp.Width, m.Pos.Y*vp.Height, m.Radius, m.Radius, g, surface.SourceOver)
	}
}

var _ scene.Scene = (*Aura)(nil)
