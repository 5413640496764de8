package dynamo

import "math"

// Vec2 is a point or displacement in logical pixels.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2    { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64            { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsValid() bool           { return isFinite(v.X) && isFinite(v.Y) }
func (v Vec2) In(w, h, m float64) bool { return v.X >= -m && v.X <= w+m && v.Y >= -m && v.Y <= h+m }

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Viewport is a surface size in logical pixels plus a device scale factor.
type Viewport struct {
	Width  float64
	Height float64
	Scale  float64
}

// NewViewport builds a viewport; non-positive scales fall back to 1.
func NewViewport(width, height, scale float64) Viewport {
	if scale <= 0 || !isFinite(scale) {
		scale = 1
	}
	if width < 0 || !isFinite(width) {
		width = 0
	}
	if height < 0 || !isFinite(height) {
		height = 0
	}
	return Viewport{Width: width, Height: height, Scale: scale}
}

// Logical returns the truncated logical size.
func (v Viewport) Logical() (int, int) {
	return int(v.Width), int(v.Height)
}

// DeviceSize returns the backing raster size in device pixels.
func (v Viewport) DeviceSize() (int, int) {
	s := v.Scale
	if s <= 0 {
		s = 1
	}
	return int(math.Round(v.Width * s)), int(math.Round(v.Height * s))
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool {
	w, h := v.DeviceSize()
	return w <= 0 || h <= 0
}

// Aspect returns width/height, or 0 for a zero-height viewport.
func (v Viewport) Aspect() float64 {
	if v.Height <= 0 {
		return 0
	}
	return v.Width / v.Height
}

// Field is a time-varying vector field sampled in logical pixels.
type Field interface {
	At(p Vec2, t float64) Vec2
}

// FieldFunc adapts a plain function to Field.
type FieldFunc func(p Vec2, t float64) Vec2

func (f FieldFunc) At(p Vec2, t float64) Vec2 { return f(p, t) }
