package state

import "errors"

var (
	// ErrInvalidDocument indicates a document is malformed: unknown or
	// missing fields, duplicate keys, or values out of range.
	ErrInvalidDocument = errors.New("state: invalid document")
)
