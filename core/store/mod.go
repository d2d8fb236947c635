// Package store defines the primitives of a simple key/value storage.
//
// The election contract receives its state through a Snapshot and never
// depends on how the snapshot is made durable. The executor checkpoints the
// snapshot after every successful command.
package store

// Readable is the interface for a readable store.
type Readable interface {
	Get(key []byte) ([]byte, error)
}

// Writable is the interface for a writable store.
type Writable interface {
	Set(key []byte, value []byte) error

	Delete(key []byte) error
}

// Snapshot is a state of the store that can be read and written
// independently. A write is applied only to the snapshot reference.
type Snapshot interface {
	Readable
	Writable
}
