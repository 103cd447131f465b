package store

import (
	"errors"
	"fmt"
)

// ErrIO marks a file that could not be opened, read or written.
var ErrIO = errors.New("record file i/o failure")

// IOError wraps the underlying filesystem error of one store operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
