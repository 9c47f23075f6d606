package store

import (
	"sync"

	"github.com/bitfsorg/libreferral-go/state"
)

// MemStore keeps the encoded document in memory. Each Load decodes a fresh
// copy, so callers never share records with the store.
type MemStore struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore { return &MemStore{} }

// Load decodes the stored document.
func (s *MemStore) Load() (*state.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.data == nil {
		return nil, noDocument()
	}
	return decode(s.data)
}

// Save replaces the stored document.
func (s *MemStore) Save(doc *state.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data = data
	return nil
}

// SetRaw replaces the stored bytes without validation (for corruption tests
// and imports).
func (s *MemStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Close marks the store closed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
