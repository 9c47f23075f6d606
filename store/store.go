// Package store persists the referral document.
//
// A Store loads and saves the whole document at once. Save followed by Load
// returns an equal document.
package store

import (
	"fmt"

	"github.com/bitfsorg/libreferral-go/state"
)

// Store is the persistence collaborator for state.Document.
type Store interface {
	// Load reads the document. A store that was never saved to returns an
	// error matching both ErrStorageUnavailable and ErrNoDocument.
	Load() (*state.Document, error)

	// Save replaces the stored document.
	Save(doc *state.Document) error

	// Close releases the store.
	Close() error
}

// Locker is implemented by stores that other processes may share. Holding
// the lock across Load, a change and Save keeps concurrent writers from
// overwriting each other.
type Locker interface {
	// Lock blocks until the lock is held and returns its release function.
	Lock() (unlock func(), err error)
}

// Lock takes s's lock when it implements Locker. Otherwise the release
// function does nothing.
func Lock(s Store) (func(), error) {
	if l, ok := s.(Locker); ok {
		return l.Lock()
	}
	return func() {}, nil
}

// decode converts stored bytes to a document, mapping failures to ErrCorruptState.
func decode(data []byte) (*state.Document, error) {
	doc, err := state.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return doc, nil
}

// encode validates and serializes a document before it is written.
func encode(doc *state.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", state.ErrInvalidDocument)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return state.Encode(doc)
}

func noDocument() error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, ErrNoDocument)
}
