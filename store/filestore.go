package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bitfsorg/libreferral-go/state"
)

// FileStore keeps the document as an indented JSON file. Writes go to a
// temporary file that is renamed over the target, so a Load never sees a
// partial document.
//
// Load and Save take no lock themselves. Callers that read, modify and write
// back hold Lock across the whole cycle; it takes an exclusive advisory lock
// on {path}.lock, so FileStores in other processes, or other FileStores in
// this process, on the same path wait their turn.
type FileStore struct {
	path     string
	lockPath string
}

// Compile-time interface checks.
var (
	_ Store  = (*FileStore)(nil)
	_ Locker = (*FileStore)(nil)
)

// pathLocks serializes FileStores in this process that share a lock file.
// On platforms without flock it is the only exclusion.
var pathLocks sync.Map // lock path -> *sync.Mutex

// Lock blocks until the caller holds the document exclusively. Call the
// returned function to release it.
func (s *FileStore) Lock() (func(), error) {
	v, _ := pathLocks.LoadOrStore(s.lockPath, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()

	f, err := acquireLock(s.lockPath)
	if err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return func() {
		releaseLock(f)
		mu.Unlock()
	}, nil
}

// NewFileStore returns a store for the JSON document at path. The parent
// directory is created if it does not exist.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrStorageUnavailable)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrStorageUnavailable, err)
	}
	lockPath := path + ".lock"
	if abs, err := filepath.Abs(lockPath); err == nil {
		lockPath = abs
	}
	return &FileStore{path: path, lockPath: lockPath}, nil
}

// Path returns the document file path.
func (s *FileStore) Path() string { return s.path }

// Load reads and decodes the document file.
func (s *FileStore) Load() (*state.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, noDocument()
		}
		return nil, fmt.Errorf("%w: read document: %w", ErrStorageUnavailable, err)
	}
	return decode(data)
}

// Save writes the document atomically.
func (s *FileStore) Save(doc *state.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp file: %w", ErrStorageUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync temp file: %w", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", ErrStorageUnavailable, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("%w: chmod temp file: %w", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: rename document: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles between calls.
func (s *FileStore) Close() error { return nil }
