package domain

import (
	"errors"
	"fmt"
)

// ErrMissingIdentifier is returned when a pack directory has no usable name for its root stage.
var ErrMissingIdentifier = errors.New("missing identifier")

// ErrNoRootStage is returned when a story has no stage flagged as the cover page.
var ErrNoRootStage = errors.New("story has no root stage")

// ErrFactoryDisabled is returned by loaders for books flagged as disabled.
var ErrFactoryDisabled = errors.New("book is factory disabled")

// ErrEmptyLibrary is returned when the controller starts without any book.
var ErrEmptyLibrary = errors.New("no book available")

// ErrInvalidStage is returned when the cursor of the active book cannot be resolved.
var ErrInvalidStage = errors.New("invalid book state")

// IOError reports an unreadable book source or asset.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports a malformed binary pack (header, counts or offsets).
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid pack %s: %s", e.Path, e.Reason)
}
