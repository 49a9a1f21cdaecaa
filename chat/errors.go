package chat

import "errors"

var (
	// ErrEmptyInput is returned when the input is empty after trimming. The
	// conversation and input buffer are left untouched.
	ErrEmptyInput = errors.New("empty input")
	// ErrClosed is returned by operations on a closed Controller.
	ErrClosed = errors.New("controller closed")
)
