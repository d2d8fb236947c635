package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/suffrage/testing/fake"
)

var testBucket = []byte("test")

func TestBoltDB_New(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	_, err = New(filepath.Join(t.TempDir(), "missing", "test.db"))
	require.Error(t, err)
}

func TestBoltDB_View(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	err = db.View(testBucket, func(Bucket) error {
		return nil
	})
	require.EqualError(t, err, "bucket '74657374': bucket not found")
	require.ErrorIs(t, err, ErrBucketNotFound)

	err = db.Update(testBucket, func(b Bucket) error {
		return b.Set([]byte("ping"), []byte("pong"))
	})
	require.NoError(t, err)

	err = db.View(testBucket, func(b Bucket) error {
		require.Equal(t, []byte("pong"), b.Get([]byte("ping")))
		require.Nil(t, b.Get([]byte("pong")))

		return nil
	})
	require.NoError(t, err)
}

func TestBoltDB_Update(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	err = db.Update(testBucket, func(b Bucket) error {
		require.NoError(t, b.Set([]byte("a"), []byte("1")))
		require.NoError(t, b.Set([]byte("b"), []byte("2")))

		return nil
	})
	require.NoError(t, err)

	err = db.Update(testBucket, func(b Bucket) error {
		return b.Delete([]byte("a"))
	})
	require.NoError(t, err)

	count := 0
	err = db.View(testBucket, func(b Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			count++

			return nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSnapshot_Get(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	snap := NewSnapshot(db, testBucket)

	// the bucket does not exist yet: the key is simply absent
	value, err := snap.Get([]byte("ping"))
	require.NoError(t, err)
	require.Nil(t, value)

	err = snap.Set([]byte("ping"), []byte("pong"))
	require.NoError(t, err)

	value, err = snap.Get([]byte("ping"))
	require.NoError(t, err)
	require.Equal(t, []byte("pong"), value)
}

func TestSnapshot_Get_DBError(t *testing.T) {
	snap := NewSnapshot(badDB{err: fake.GetError()}, testBucket)

	// only the missing bucket is silent, a failing database is not
	_, err := snap.Get([]byte("ping"))
	require.EqualError(t, err, fake.Err("failed to read value"))
}

func TestSnapshot_Delete(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	snap := NewSnapshot(db, testBucket)

	err = snap.Set([]byte("ping"), []byte("pong"))
	require.NoError(t, err)

	err = snap.Delete([]byte("ping"))
	require.NoError(t, err)

	value, err := snap.Get([]byte("ping"))
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestSnapshot_Durability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := New(path)
	require.NoError(t, err)

	snap := NewSnapshot(db, testBucket)

	err = snap.Set([]byte("ping"), []byte("pong"))
	require.NoError(t, err)

	require.NoError(t, db.Close())

	// the write must survive a reopening of the database
	db, err = New(path)
	require.NoError(t, err)

	defer db.Close()

	value, err := NewSnapshot(db, testBucket).Get([]byte("ping"))
	require.NoError(t, err)
	require.Equal(t, []byte("pong"), value)
}

// -----------------------------------------------------------------------------
// Utility functions

type badDB struct {
	err error
}

func (db badDB) View([]byte, func(Bucket) error) error {
	return db.err
}

func (db badDB) Update([]byte, func(Bucket) error) error {
	return db.err
}

func (db badDB) Close() error {
	return nil
}
