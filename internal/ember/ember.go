// Package ember renders large, faint, two-tone glows that wander under a
// slowly shifting background wash.
package ember

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/genviz/internal/dynamo"
)

type Variant string

const (
	Rainbow Variant = "rainbow"
	Warm    Variant = "warm"
)

// ParseVariant accepts "rainbow" or "warm".
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case Rainbow, Warm:
		return v, nil
	case "":
		return Rainbow, nil
	}
	return "", fmt.Errorf("ember: variant %q: %w", s, dynamo.ErrInvalidConfig)
}

// WrapMargin lets orbs leave the surface fully before reappearing.
const WrapMargin = 0.28

// Ember is one glow. Pos is normalized to the surface; Radius is in logical
// pixels; Heading is in radians.
type Ember struct {
	Pos      dynamo.Vec2
	Radius   float64
	Speed    float64
	Heading  float64
	TurnRate float64
	Hue      float64
	Hue2     float64
	Alpha    float64
}

// Spawn draws a new ember for variant v.
func Spawn(rng *rand.Rand, v Variant) Ember {
	var hue float64
	if v == Warm {
		hue = 22 + rng.Float64()*18
	} else {
		hue = rng.Float64() * 360
	}
	pairChance := 0.55
	if v == Warm {
		pairChance = 0.35
	}
	pair := rng.Float64() < pairChance

	e := Ember{
		Pos:      dynamo.Vec2{X: rng.Float64(), Y: rng.Float64()},
		Radius:   96 + rng.Float64()*160,
		Speed:    0.18 + rng.Float64()*0.32,
		Heading:  rng.Float64() * 2 * math.Pi,
		TurnRate: 0.012 + rng.Float64()*0.028,
		Hue:      hue,
	}

	switch {
	case v == Warm && pair:
		e.Hue2 = hue + 8 + rng.Float64()*12
	case v == Warm:
		e.Hue2 = hue + 16 + rng.Float64()*10
	case pair:
		e.Hue2 = hue + 180
	default:
		e.Hue2 = hue + 40 + rng.Float64()*40
	}
	e.Hue2 = math.Mod(e.Hue2, 360)

	if v == Warm {
		e.Alpha = 0.18 + rng.Float64()*0.10
	} else {
		e.Alpha = 0.16 + rng.Float64()*0.12
	}
	return e
}

// Wrap moves v to the opposite edge once it leaves [-WrapMargin, 1+WrapMargin].
func Wrap(v float64) float64 {
	switch {
	case v < -WrapMargin:
		return 1 + WrapMargin
	case v > 1+WrapMargin:
		return -WrapMargin
	}
	return v
}

// Flicker is the brightness multiplier at frame t for a glow at (px, py).
func Flicker(t, px, py float64) float64 {
	return 0.9 + 0.1*math.Sin(0.003*t+px*0.001+py*0.0013)
}

// Noise is a smooth 2D noise source in roughly [-1, 1].
type Noise interface {
	Noise2D(x, y float64) float64
}

// NewNoise returns a seeded Perlin source.
func NewNoise(seed int64) Noise {
	return perlin.NewPerlin(2, 2, 3, seed)
}

// Drift turns e by its turn rate plus a noise term and moves it along the
// new heading. w and h convert the normalized position for noise sampling.
func Drift(e *Ember, n Noise, t, w, h float64) {
	px, py := e.Pos.X*w, e.Pos.Y*h
	v := n.Noise2D(px*0.002+t*0.002, py*0.002-t*0.0016)
	e.Heading += e.TurnRate*0.6 + v*0.14
	step := e.Speed * 2.4 * 0.0019
	e.Pos.X = Wrap(e.Pos.X + math.Cos(e.Heading)*step)
	e.Pos.Y = Wrap(e.Pos.Y + math.Sin(e.Heading)*step)
}
