package resources

import (
	"math"
	"sort"
	"time"
)

// Keyframe is one stop of a looping background animation.
type Keyframe struct {
	At         float64 // fraction of the period in [0, 1]
	TranslateX float64 // fraction of the surface width
	TranslateY float64 // fraction of the surface height
	Scale      float64
	HueShift   float64 // degrees
	Saturate   float64
}

// Keyframes is a looping animation sampled by elapsed time.
type Keyframes struct {
	Period time.Duration
	Frames []Keyframe
}

// Sample interpolates the animation at elapsed, easing between stops.
func (k Keyframes) Sample(elapsed time.Duration) Keyframe {
	if len(k.Frames) == 0 {
		return Keyframe{Scale: 1, Saturate: 1}
	}
	if len(k.Frames) == 1 || k.Period <= 0 {
		return k.Frames[0]
	}
	frames := append([]Keyframe(nil), k.Frames...)
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].At < frames[j].At })

	p := math.Mod(float64(elapsed)/float64(k.Period), 1)
	if p < 0 {
		p++
	}

	if p <= frames[0].At {
		return frames[0]
	}
	for i := 1; i < len(frames); i++ {
		a, b := frames[i-1], frames[i]
		if p > b.At {
			continue
		}
		span := b.At - a.At
		if span <= 0 {
			return b
		}
		t := ease((p - a.At) / span)
		return Keyframe{
			At:         p,
			TranslateX: mix(a.TranslateX, b.TranslateX, t),
			TranslateY: mix(a.TranslateY, b.TranslateY, t),
			Scale:      mix(a.Scale, b.Scale, t),
			HueShift:   mix(a.HueShift, b.HueShift, t),
			Saturate:   mix(a.Saturate, b.Saturate, t),
		}
	}
	return frames[len(frames)-1]
}

func ease(t float64) float64 { return 0.5 - 0.5*math.Cos(math.Pi*t) }

func mix(a, b, t float64) float64 { return a + (b-a)*t }

// WarmGlowID names the warm background glow registered by ember scenes.
const WarmGlowID = "warm-glow-keys"

// WarmGlow is the slow drifting wash behind the ember field.
func WarmGlow() Keyframes {
	return Keyframes{
		Period: 28 * time.Second,
		Frames: []Keyframe{
			{At: 0, TranslateX: -0.10, TranslateY: -0.06, Scale: 1.05, HueShift: 0, Saturate: 1},
			{At: 0.5, TranslateX: 0.08, TranslateY: 0.06, Scale: 1.02, HueShift: 10, Saturate: 1.08},
			{At: 1, TranslateX: -0.10, TranslateY: -0.06, Scale: 1.05, HueShift: 0, Saturate: 1},
		},
	}
}

// EnsureWarmGlow registers the warm glow on r once and returns it.
func EnsureWarmGlow(r *Registry) Keyframes {
	return r.Ensure(WarmGlowID, func() any { return WarmGlow() }).(Keyframes)
}
