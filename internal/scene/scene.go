package scene

import (
	"fmt"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/surface"
	"github.com/sirupsen/logrus"
)

// Scene is a self-contained animated visualization.
type Scene interface {
	Name() string
	// Resize re-derives all size-dependent state for vp.
	Resize(vp dynamo.Viewport) error
	// SetRunning toggles state advancement; rendering is unaffected.
	SetRunning(running bool)
	Running() bool
	// Step advances state by one frame when running.
	Step()
	// Render draws the current state. It must tolerate a missing surface.
	Render()
	Surface() *surface.Surface
	// Release drops every buffer owned by the scene.
	Release()
}

// PointerHandler is implemented by scenes that react to pointer input.
// Coordinates are surface-local logical pixels.
type PointerHandler interface {
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp()
	// Wheel reports whether the event was consumed, in which case the host
	// must suppress its default scrolling.
	Wheel(x, y, deltaY float64) bool
}

// Frame advances s and then draws it.
func Frame(s Scene) {
	s.Step()
	s.Render()
}

// Base carries the state every scene shares: viewport, surface and motion flag.
type Base struct {
	name    string
	vp      dynamo.Viewport
	surf    *surface.Surface
	running bool
	log     *logrus.Entry
	warned  bool
}

// NewBase creates a running base. A nil log discards output.
func NewBase(name string, log *logrus.Entry) Base {
	if log == nil {
		l := logrus.New()
		l.SetOutput(discard{})
		log = logrus.NewEntry(l)
	}
	return Base{name: name, running: true, log: log.WithField("scene", name)}
}

func (b *Base) Name() string              { return b.name }
func (b *Base) Running() bool             { return b.running }
func (b *Base) SetRunning(running bool)   { b.running = running }
func (b *Base) Surface() *surface.Surface { return b.surf }
func (b *Base) Viewport() dynamo.Viewport { return b.vp }
func (b *Base) Log() *logrus.Entry        { return b.log }

// Allocate replaces the surface with one sized for vp. On failure the scene
// keeps no surface and later renders become no-ops.
func (b *Base) Allocate(vp dynamo.Viewport) error {
	b.vp = vp
	b.surf.Release()
	b.surf = nil
	b.warned = false

	s, err := surface.New(vp)
	if err != nil {
		b.log.WithError(err).Debug("surface unavailable")
		return &dynamo.SceneError{Scene: b.name, Op: "resize", Wrapped: err}
	}
	b.surf = s
	b.log.WithFields(logrus.Fields{
		"width":  vp.Width,
		"height": vp.Height,
		"scale":  vp.Scale,
	}).Debug("surface allocated")
	return nil
}

// Ready reports whether a drawable surface exists, logging the first miss.
func (b *Base) Ready() bool {
	if b.surf.Available() {
		return true
	}
	if !b.warned {
		b.warned = true
		b.log.Debug("render skipped: no surface")
	}
	return false
}

// Release drops the surface.
func (b *Base) Release() {
	b.surf.Release()
	b.surf = nil
}

func (b *Base) String() string {
	return fmt.Sprintf("%s(%vx%v@%v)", b.name, b.vp.Width, b.vp.Height, b.vp.Scale)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
