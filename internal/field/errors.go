package field

import "errors"

// Domain errors for simulator lifecycle operations.
var (
	// ErrInvalidSize indicates non-positive surface dimensions or a negative particle count.
	ErrInvalidSize = errors.New("field: invalid surface size or particle count")

	// ErrAlreadyStarted indicates Start was called on a running or stopped simulator.
	ErrAlreadyStarted = errors.New("field: simulator already started")

	// ErrNotStarted indicates an operation that needs particles ran before Start.
	ErrNotStarted = errors.New("field: simulator not started")

	// ErrSurface indicates the drawing surface could not be acquired or resized.
	ErrSurface = errors.New("field: drawing surface unavailable")
)
