package store

import "errors"

var (
	// ErrStorageUnavailable indicates the backing store could not be read or written.
	ErrStorageUnavailable = errors.New("store: storage unavailable")

	// ErrNoDocument indicates the store has never been initialized. It is
	// always wrapped together with ErrStorageUnavailable.
	ErrNoDocument = errors.New("store: no document")

	// ErrCorruptState indicates the stored document failed to decode or validate.
	ErrCorruptState = errors.New("store: corrupt state")

	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("store: closed")
)
