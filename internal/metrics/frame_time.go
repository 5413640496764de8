package metrics

import (
	"math"
	"slices"
	"time"

	"github.com/san-kum/genviz/internal/scene"
)

// FrameTime records how long each frame took. Value is the mean in
// milliseconds.
type FrameTime struct {
	name    string
	samples []time.Duration
	total   time.Duration
}

func NewFrameTime() *FrameTime {
	return &FrameTime{name: "frame_ms"}
}

func (f *FrameTime) Name() string { return f.name }

func (f *FrameTime) Observe(_ scene.Scene, elapsed time.Duration) {
	f.samples = append(f.samples, elapsed)
	f.total += elapsed
}

func (f *FrameTime) Value() float64 {
	return float64(f.Mean()) / float64(time.Millisecond)
}

func (f *FrameTime) Mean() time.Duration {
	if len(f.samples) == 0 {
		return 0
	}
	return f.total / time.Duration(len(f.samples))
}

func (f *FrameTime) Max() time.Duration {
	if len(f.samples) == 0 {
		return 0
	}
	return slices.Max(f.samples)
}

// Percentile returns the nearest-rank percentile p in [0, 100].
func (f *FrameTime) Percentile(p float64) time.Duration {
	if len(f.samples) == 0 {
		return 0
	}
	sorted := slices.Clone(f.samples)
	slices.Sort(sorted)
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	rank = min(max(rank, 1), len(sorted))
	return sorted[rank-1]
}

// Samples returns the recorded durations in milliseconds, in order.
func (f *FrameTime) Samples() []float64 {
	out := make([]float64, len(f.samples))
	for i, d := range f.samples {
		out[i] = float64(d) / float64(time.Millisecond)
	}
	return out
}

func (f *FrameTime) Reset() {
	f.samples = f.samples[:0]
	f.total = 0
}
