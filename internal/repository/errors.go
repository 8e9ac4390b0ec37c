package repository

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable indicates the underlying store could not be
	// opened, read, or written. Operations that return it have made no
	// partial changes visible to readers.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
