// Package apperr holds the sentinel errors shared by the board packages.
package apperr

import "errors"

var (
	// ErrNotFound is returned when an operation references a missing shape id.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a shape id is inserted twice.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidGeometry covers non-finite coordinates and sizes that are not permitted.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidConfig covers zoom <= 0, negative thresholds and bad settings.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrBusy is returned for camera changes requested while a tool operation
	// is in progress.
	ErrBusy = errors.New("busy")
	// ErrClosed is returned by a stopped event loop.
	ErrClosed = errors.New("closed")
)
