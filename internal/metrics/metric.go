// Package metrics accumulates per-frame statistics for benchmarks and
// captures.
package metrics

import (
	"time"

	"github.com/san-kum/genviz/internal/scene"
)

// Metric observes one frame at a time.
type Metric interface {
	Name() string
	Observe(s scene.Scene, elapsed time.Duration)
	Value() float64
	Reset()
}

// Set fans observations out to several metrics.
type Set []Metric

func (m Set) Observe(s scene.Scene, elapsed time.Duration) {
	for _, x := range m {
		x.Observe(s, elapsed)
	}
}

// Values maps metric names to their current values.
func (m Set) Values() map[string]float64 {
	out := make(map[string]float64, len(m))
	for _, x := range m {
		out[x.Name()] = x.Value()
	}
	return out
}
