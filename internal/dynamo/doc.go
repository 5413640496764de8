// Package dynamo provides the shared primitives every scene engine is built on.
//
// The package defines:
//
//   - [Vec2]: a 2D vector in logical (CSS) pixels
//   - [Viewport]: logical surface size plus the device scale factor
//   - [Field]: a time-varying 2D vector field
//   - [ParallelFor]: chunked fan-out used by brute-force renderers
//   - [TrigTable]: interpolated sine lookup for cosmetic oscillators
//
// # Example
//
//	vp := dynamo.NewViewport(640, 360, 2)
//	w, h := vp.DeviceSize() // 1280, 720
//
// # Thread Safety
//
// Values in this package are immutable or plain data. Scene state built on
// top of them is owned by exactly one loop goroutine.
package dynamo
