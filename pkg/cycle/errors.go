package cycle

import "errors"

var (
	// ErrNoProcessFunc is returned when a configuration has no per-element function.
	ErrNoProcessFunc = errors.New("process function is nil")

	// ErrRunning is returned when a running pool is reconfigured.
	ErrRunning = errors.New("pool is running")

	// ErrNotConfigured is returned when an unconfigured pool is started.
	ErrNotConfigured = errors.New("pool is not configured")
)

// Error records a failed pool operation.
type Error struct {
	Op  string // Operation (e.g., "configure", "start")
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "cycle: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

func opError(op string, err error) error {
	return &Error{Op: op, Err: err}
}
