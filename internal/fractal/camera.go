package fractal

import "math"

const (
	MinScale = 1e-13
	MaxScale = 16.0
)

// Camera is the view onto the complex plane. Scale is the height of the
// visible region; the width follows the surface aspect.
type Camera struct {
	CX, CY   float64
	Scale    float64
	Dragging bool
	LastX    float64
	LastY    float64
	// Cooldown counts frames left before autonomous zoom resumes.
	Cooldown int
}

func DefaultCamera() Camera {
	return Camera{CX: -0.5, CY: 0, Scale: 3.2}
}

// PointAt maps a pixel of a w x h view to the complex plane.
func (c *Camera) PointAt(px, py, w, h float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return c.CX, c.CY
	}
	return c.CX + (px/w-0.5)*c.Scale*(w/h), c.CY + (py/h-0.5)*c.Scale
}

// Pan shifts the centre by a pixel delta at the current scale.
func (c *Camera) Pan(dx, dy, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	c.CX += dx / w * c.Scale * (w / h)
	c.CY += dy / h * c.Scale
}

// ZoomAt multiplies the scale by factor while keeping the point under
// (px, py) fixed.
func (c *Camera) ZoomAt(px, py, w, h, factor float64) {
	if w <= 0 || h <= 0 || factor <= 0 || math.IsNaN(factor) {
		return
	}
	ax, ay := c.PointAt(px, py, w, h)
	c.SetScale(c.Scale * factor)
	bx, by := c.PointAt(px, py, w, h)
	c.CX += ax - bx
	c.CY += ay - by
}

// SetScale clamps s into [MinScale, MaxScale].
func (c *Camera) SetScale(s float64) {
	switch {
	case math.IsNaN(s) || s < MinScale:
		s = MinScale
	case s > MaxScale:
		s = MaxScale
	}
	c.Scale = s
}

// Region is an axis-aligned window onto the complex plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Camera centres a camera on r, fitting its height.
func (r Region) Camera() Camera {
	c := Camera{CX: (r.Xmin + r.Xmax) / 2, CY: (r.Ymin + r.Ymax) / 2}
	c.SetScale(r.Ymax - r.Ymin)
	return c
}

// Landmarks are well known regions of the set.
var Landmarks = map[string]Region{
	"home":     {Xmin: -2.1, Xmax: 1.1, Ymin: -1.6, Ymax: 1.6},
	"seahorse": {Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15},
	"elephant": {Xmin: -1.85, Xmax: -1.75, Ymin: -0.10, Ymax: -0.02},
	"spiral":   {Xmin: -0.7435, Xmax: -0.7420, Ymin: 0.1310, Ymax: 0.1325},
	"triple":   {Xmin: -0.7480, Xmax: -0.7450, Ymin: 0.0950, Ymax: 0.0980},
	"dragon":   {Xmin: -0.7400, Xmax: -0.7350, Ymin: 0.1800, Ymax: 0.1850},
}
