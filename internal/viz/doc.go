// Package viz provides the terminal preview of the scenes.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live preview of one scene, re-rendered each tick into a
//     Braille [Canvas] next to a frame-time panel
//   - a picker that lists scenes and their presets before opening the preview
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space   - Pause/Resume motion
//	Tab/1-9 - Switch scene
//	Arrows  - Pan, +/- zoom (scenes that take pointer input)
//	T       - Cycle color themes
//	G       - Toggle recording
//	?       - Show help overlay
//
// # Recording
//
// G captures surface snapshots until pressed again (or a frame cap is hit)
// and hands them to a storage.Store as a capture directory.
package viz
