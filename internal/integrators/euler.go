package integrators

import "github.com/san-kum/genviz/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(f dynamo.Field, p dynamo.Vec2, t, dt float64) dynamo.Vec2 {
	return p.Add(f.At(p, t).Scale(dt))
}
