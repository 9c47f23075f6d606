package store

import "go.etcd.io/bbolt"

// putRaw writes bytes without validation to simulate corruption.
func (s *BoltStore) putRaw(data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocument).Put(keyCurrent, data)
	})
}
