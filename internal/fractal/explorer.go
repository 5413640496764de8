package fractal

import (
	"image"
	"math"

	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/sirupsen/logrus"
)

const Name = "fractal"

type Options struct {
	Camera         Camera
	MaxIter        int
	ZoomDecay      float64
	CooldownFrames int
	WheelRatio     float64
	Workers        int
}

func DefaultOptions() Options {
	return Options{
		Camera:         DefaultCamera(),
		MaxIter:        140,
		ZoomDecay:      0.9997,
		CooldownFrames: 240,
		WheelRatio:     1.1,
		Workers:        dynamo.DefaultWorkers,
	}
}

// Explorer is the interactive Mandelbrot scene. The fractal is computed at
// logical resolution into an offscreen raster and blitted rotated.
type Explorer struct {
	scene.Base
	opts Options
	cam  Camera
	off  *image.RGBA
}

func New(opts Options, log *logrus.Entry) *Explorer {
	if opts.MaxIter <= 0 {
		opts.MaxIter = 140
	}
	if opts.WheelRatio <= 1 {
		opts.WheelRatio = 1.1
	}
	if opts.ZoomDecay <= 0 || opts.ZoomDecay > 1 {
		opts.ZoomDecay = 0.9997
	}
	e := &Explorer{Base: scene.NewBase(Name, log), opts: opts, cam: opts.Camera}
	if e.cam.Scale <= 0 {
		e.cam = DefaultCamera()
	}
	e.cam.SetScale(e.cam.Scale)
	return e
}

// Camera returns a copy of the current camera.
func (e *Explorer) Camera() Camera { return e.cam }

// Resize keeps the camera and rebuilds the offscreen raster.
func (e *Explorer) Resize(vp dynamo.Viewport) error {
	e.off = nil
	err := e.Allocate(vp)
	if err != nil {
		return err
	}
	w, h := vp.Logical()
	if w <= 0 || h <= 0 {
		return &dynamo.SceneError{Scene: Name, Op: "resize", Wrapped: dynamo.ErrDegenerateGeometry}
	}
	e.off = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

// Step holds the scale during the interaction cooldown, then zooms in slowly
// while running.
func (e *Explorer) Step() {
	if e.cam.Cooldown > 0 {
		e.cam.Cooldown--
		return
	}
	if e.Running() {
		e.cam.SetScale(e.cam.Scale * e.opts.ZoomDecay)
	}
}

func (e *Explorer) Render() {
	if !e.Ready() || e.off == nil {
		return
	}
	Rasterize(e.off, e.cam, e.opts.MaxIter, e.opts.Workers)
	s := e.Surface()
	s.Clear()
	s.DrawRotated90(e.off)
}

// Offscreen returns the unrotated offscreen raster of the last render.
func (e *Explorer) Offscreen() *image.RGBA { return e.off }

// size is the raster the camera is mapped onto, so pointer maths agrees
// with Rasterize for fractional viewports.
func (e *Explorer) size() (float64, float64) {
	if e.off != nil {
		return float64(e.off.Rect.Dx()), float64(e.off.Rect.Dy())
	}
	w, h := e.Viewport().Logical()
	return float64(w), float64(h)
}

func (e *Explorer) PointerDown(x, y float64) {
	e.cam.Dragging = true
	e.cam.LastX, e.cam.LastY = x, y
	e.cam.Cooldown = e.opts.CooldownFrames
}

func (e *Explorer) PointerMove(x, y float64) {
	if !e.cam.Dragging {
		return
	}
	dx, dy := x-e.cam.LastX, y-e.cam.LastY
	e.cam.LastX, e.cam.LastY = x, y
	w, h := e.size()
	e.cam.Pan(dx, dy, w, h)
}

func (e *Explorer) PointerUp() { e.cam.Dragging = false }

// Wheel zooms about the cursor: out for positive deltaY, in otherwise. The
// event is always consumed.
func (e *Explorer) Wheel(x, y, deltaY float64) bool {
	w, h := e.size()
	if w <= 0 || h <= 0 || deltaY == 0 || math.IsNaN(deltaY) {
		return true
	}
	sgn := -1.0
	if deltaY > 0 {
		sgn = 1
	}
	e.cam.ZoomAt(x, y, w, h, math.Pow(e.opts.WheelRatio, sgn))
	e.cam.Cooldown = e.opts.CooldownFrames
	return true
}

// Release drops the surface and the offscreen raster.
func (e *Explorer) Release() {
	e.off = nil
	e.Base.Release()
}

var (
	_ scene.Scene          = (*Explorer)(nil)
	_ scene.PointerHandler = (*Explorer)(nil)
)
