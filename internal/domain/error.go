package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArgument indicates that a required positional argument was not supplied.
	ErrMissingArgument = errors.New("missing argument")

	// ErrInvalidArgument indicates that an argument could not be read as a number.
	ErrInvalidArgument = errors.New("argument is not a number")

	// ErrUnsupportedStream indicates that a backend cannot address the requested stream.
	ErrUnsupportedStream = errors.New("unsupported stream")

	// ErrInvalidSettings indicates that the persisted configuration failed validation.
	ErrInvalidSettings = errors.New("invalid settings")
)

// PlatformError is returned whenever the audio-control backend fails.
// All backend failures collapse into this one kind.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	if e.Err == nil {
		return e.Op + ": platform error"
	}
	return e.Err.Error()
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewPlatformError wraps err for op. A nil err stays nil.
func NewPlatformError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PlatformError
	if errors.As(err, &pe) {
		return err
	}
	return &PlatformError{Op: op, Err: err}
}

// IsPlatformError reports whether err carries a PlatformError.
func IsPlatformError(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe)
}

// ArgumentError builds an argument failure for the positional index.
func ArgumentError(index int, cause error) error {
	return fmt.Errorf("argument %d: %w", index, cause)
}
