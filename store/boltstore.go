package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libreferral-go/state"
)

var (
	bucketDocument = []byte("document")
	keyCurrent     = []byte("current")
)

// BoltStore keeps the encoded document under a single key in a bbolt
// database. Each Save is one bbolt write transaction.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrStorageUnavailable, err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open bolt db: %w", ErrStorageUnavailable, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketDocument); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketDocument, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create buckets: %w", ErrStorageUnavailable, err)
	}

	return &BoltStore{db: db}, nil
}

// Load reads and decodes the current document.
func (s *BoltStore) Load() (*state.Document, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketDocument).Get(keyCurrent)
		if v == nil {
			return noDocument()
		}
		// v is only valid inside the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return decode(data)
}

// Save validates, encodes and writes the document.
func (s *BoltStore) Save(doc *state.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketDocument).Put(keyCurrent, data); err != nil {
			return fmt.Errorf("boltstore: put document: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }
