// Package scene defines the lifecycle every visualization engine follows and
// the loop that drives it.
//
//	mount → Resize → seed → Loop.Start → (events) → Loop.Stop → Release
//
// A [Loop] owns one goroutine per mounted scene. Frames run [Frame], which
// always advances state before drawing it. Resize, pointer and motion changes
// are posted to the loop and applied between frames, so a scene never sees
// concurrent access.
package scene
