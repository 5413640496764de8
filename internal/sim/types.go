// Package sim drives scenes headlessly for a fixed number of frames,
// collecting timings, metrics and snapshots.
package sim

import (
	"image"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/scene"
)

type Observer interface {
	OnFrame(s scene.Scene, frame int)
}

type ObserverFunc func(s scene.Scene, frame int)

func (f ObserverFunc) OnFrame(s scene.Scene, frame int) { f(s, frame) }

type Config struct {
	Viewport dynamo.Viewport
	Frames   int
	// Every keeps a snapshot each Every frames. Zero keeps only the last.
	Every int
	// PauseAt clears the motion flag before that frame when positive.
	PauseAt int
}

type Result struct {
	Scene      string
	Snapshots  []*image.RGBA
	Timings    []float64 // milliseconds per frame
	Metrics    map[string]float64
	StepsTaken int
}

// Last returns the final snapshot or nil.
func (r *Result) Last() *image.RGBA {
	if len(r.Snapshots) == 0 {
		return nil
	}
	return r.Snapshots[len(r.Snapshots)-1]
}
