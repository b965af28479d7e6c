package unzip

import (
	"errors"
	"fmt"
)

// Validation errors, returned before anything is written.
var (
	ErrNoDestination = errors.New("destination path must not be empty")
	ErrNoSource      = errors.New("archive source must not be nil")
)

// ErrPathTraversal is matched (via errors.Is) by every PathTraversalError.
var ErrPathTraversal = errors.New("archive entry escapes destination directory")

// ErrMaxDepth is returned when nested archives go deeper than Options.MaxDepth.
var ErrMaxDepth = errors.New("nested archives exceed maximum depth")

// A PathTraversalError is returned when an entry's name would place it outside the
// directory being extracted into. It always aborts the whole extraction.
type PathTraversalError struct {
	Root, Name string
}

func (err *PathTraversalError) Error() string {
	return fmt.Sprintf("entry %q would be extracted outside %s", err.Name, err.Root)
}

// Is implements errors.Is so callers can check for ErrPathTraversal.
func (err *PathTraversalError) Is(target error) bool {
	return target == ErrPathTraversal
}

// An IOError wraps a filesystem failure encountered while extracting.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (err *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %s", err.Op, err.Path, err.Err)
}

func (err *IOError) Unwrap() error {
	return err.Err
}

// A CharsetError is returned when the requested charset isn't one we know how to decode.
type CharsetError struct {
	Name string
	Err  error
}

func (err *CharsetError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("unknown charset %q: %s", err.Name, err.Err)
	}
	return fmt.Sprintf("unsupported charset %q", err.Name)
}

func (err *CharsetError) Unwrap() error {
	return err.Err
}

func ioError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

var errNotDirectory = errors.New("not a directory")
