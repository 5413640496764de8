// Package flowfield advects a pool of short-lived particles through a slowly
// evolving analytic vector field and draws fading ink trails.
package flowfield

import (
	"math"

	"github.com/san-kum/genviz/internal/dynamo"
)

// Velocity samples the field at (x, y) on a w x h domain at time t. The field
// is a blend of two sine lattices plus a weak rotation about the centre.
func Velocity(x, y, w, h, t float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	nx := x/w*2 - 1
	ny := y/h*2 - 1
	f1 := math.Sin(1.6*nx+0.8*t) * math.Cos(1.3*ny-0.6*t)
	f2 := math.Sin(1.1*ny-0.5*t) * math.Cos(1.4*nx+0.7*t)
	return 0.6*f1 - 0.4*f2 + 0.25*ny, -0.4*f1 + 0.6*f2 - 0.25*nx
}

// Field binds Velocity to a domain size.
type Field struct {
	W, H float64
}

func (f Field) At(p dynamo.Vec2, t float64) dynamo.Vec2 {
	vx, vy := Velocity(p.X, p.Y, f.W, f.H, t)
	return dynamo.Vec2{X: vx, Y: vy}
}

// Streamline traces steps segments of length stepLen along the field
// direction from start.
func Streamline(f dynamo.Field, start dynamo.Vec2, t float64, steps int, stepLen float64) []dynamo.Vec2 {
	pts := make([]dynamo.Vec2, 0, steps+1)
	p := start
	pts = append(pts, p)
	for k := 0; k < steps; k++ {
		v := f.At(p, t)
		ang := math.Atan2(v.Y, v.X)
		p = p.Add(dynamo.Vec2{X: math.Cos(ang) * stepLen, Y: math.Sin(ang) * stepLen})
		pts = append(pts, p)
	}
	return pts
}
