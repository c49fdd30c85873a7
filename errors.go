package spacegen

import (
	"errors"
	"fmt"
)

// Common errors returned by Engine operations.
var (
	// ErrClosed is returned by mutators after Close.
	ErrClosed = errors.New("spacegen: engine is closed")

	// ErrNoLevels is reported when WithSemanticLevels was not supplied.
	ErrNoLevels = errors.New("spacegen: semantic levels are required")

	// ErrInvalidFactor is returned by Zoom and ZoomAt for a factor that is
	// not finite and positive.
	ErrInvalidFactor = errors.New("spacegen: zoom factor must be finite and > 0")

	// ErrInvalidOffset is returned by Pan for non-finite offsets.
	ErrInvalidOffset = errors.New("spacegen: pan offset must be finite")
)

// ConfigurationError reports an option New could not accept. It is only
// returned at construction.
type ConfigurationError struct {
	Option string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("spacegen: invalid configuration %s: %v", e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configError(option string, err error) error {
	return &ConfigurationError{Option: option, Err: err}
}
