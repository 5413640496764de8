package integrators

import "github.com/san-kum/genviz/internal/dynamo"

// Integrator advances a point through a vector field by one step.
type Integrator interface {
	Name() string
	Step(f dynamo.Field, p dynamo.Vec2, t, dt float64) dynamo.Vec2
}

// Scaled multiplies every sample of f by k.
func Scaled(f dynamo.Field, k float64) dynamo.Field {
	return dynamo.FieldFunc(func(p dynamo.Vec2, t float64) dynamo.Vec2 {
		return f.At(p, t).Scale(k)
	})
}

// ByName returns an integrator by registry name.
func ByName(name string) (Integrator, bool) {
	switch name {
	case "euler":
		return NewEuler(), true
	case "midpoint", "rk2":
		return NewMidpoint(), true
	}
	return nil, false
}
