package integrators

import "github.com/san-kum/genviz/internal/dynamo"

// Midpoint is the two-stage Runge-Kutta method: sample at p, take a half
// step, and advance with the velocity sampled there.
type Midpoint struct{}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Name() string { return "midpoint" }

func (m *Midpoint) Step(f dynamo.Field, p dynamo.Vec2, t, dt float64) dynamo.Vec2 {
	k1 := f.At(p, t)
	mid := p.Add(k1.Scale(0.5 * dt))
	k2 := f.At(mid, t+0.5*dt)
	return p.Add(k2.Scale(dt))
}
