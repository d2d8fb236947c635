package kv

import (
	"go.dedis.ch/suffrage/core/store"
	"golang.org/x/xerrors"
)

// snapshot is a store.Snapshot backed by a bucket of a kv.DB. Every write
// opens its own database transaction so that a successful command is durable
// as soon as it returns.
//
// - implements store.Snapshot
type snapshot struct {
	db     DB
	bucket []byte
}

// NewSnapshot returns a snapshot of the database restricted to the given
// bucket.
func NewSnapshot(db DB, bucket []byte) store.Snapshot {
	return snapshot{
		db:     db,
		bucket: bucket,
	}
}

// Get implements store.Readable. It returns nil if the key does not exist,
// which includes the case where the bucket has not been created yet.
func (s snapshot) Get(key []byte) ([]byte, error) {
	var value []byte

	err := s.db.View(s.bucket, func(b Bucket) error {
		v := b.Get(key)
		if v != nil {
			value = append([]byte{}, v...)
		}

		return nil
	})

	// The bucket is created on the first write, so a missing bucket only
	// means nothing has been stored yet.
	if xerrors.Is(err, ErrBucketNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, xerrors.Errorf("failed to read value: %v", err)
	}

	return value, nil
}

// Set implements store.Writable. It stores the value in the bucket.
func (s snapshot) Set(key, value []byte) error {
	err := s.db.Update(s.bucket, func(b Bucket) error {
		return b.Set(key, value)
	})
	if err != nil {
		return xerrors.Errorf("failed to set value: %v", err)
	}

	return nil
}

// Delete implements store.Writable. It removes the key from the bucket.
func (s snapshot) Delete(key []byte) error {
	err := s.db.Update(s.bucket, func(b Bucket) error {
		return b.Delete(key)
	})
	if err != nil {
		return xerrors.Errorf("failed to delete key: %v", err)
	}

	return nil
}
