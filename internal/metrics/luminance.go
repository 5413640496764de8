package metrics

import (
	"time"

	"github.com/san-kum/genviz/internal/scene"
)

// Luminance averages the mean brightness of rendered frames.
type Luminance struct {
	name    string
	sum     float64
	samples int
}

func NewLuminance() *Luminance {
	return &Luminance{
		name: "luminance",
	}
}

func (l *Luminance) Name() string {
	return l.name
}

func (l *Luminance) Observe(s scene.Scene, _ time.Duration) {
	surf := s.Surface()
	img := surf.Image()
	if img == nil {
		return
	}
	l.sum += surf.Luminance(img.Rect)
	l.samples++
}

func (l *Luminance) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return l.sum / float64(l.samples)
}

func (l *Luminance) Reset() {
	l.sum = 0
	l.samples = 0
}
