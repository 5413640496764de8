package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for scene operations.
var (
	// ErrSurfaceUnavailable indicates no raster surface could be acquired.
	ErrSurfaceUnavailable = errors.New("dynamo: surface unavailable")

	// ErrDegenerateGeometry indicates a zero-sized or otherwise unusable viewport.
	ErrDegenerateGeometry = errors.New("dynamo: degenerate geometry")

	// ErrUnknownScene indicates a scene name that is not registered.
	ErrUnknownScene = errors.New("dynamo: unknown scene")

	// ErrLoopStopped indicates an operation on a loop that has been stopped.
	ErrLoopStopped = errors.New("dynamo: loop stopped")

	// ErrNoPointer indicates pointer input sent to a scene that takes none.
	ErrNoPointer = errors.New("dynamo: scene takes no pointer input")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")
)

// SceneError wraps an error with the scene and operation that produced it.
type SceneError struct {
	Scene   string
	Op      string
	Wrapped error
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Scene, e.Op, e.Wrapped)
}

func (e *SceneError) Unwrap() error {
	return e.Wrapped
}
