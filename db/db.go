// Package db defines the storage-engine-agnostic key/value interface every
// backend (db/inmemory, db/pebbledb) implements. Higher layers (store)
// depend only on Database/WriteTx, never on a concrete backend.
package db

import "fmt"

// ErrKeyNotFound is returned by Get and by WriteTx.Get when the key does
// not exist (or was deleted within the same transaction).
var ErrKeyNotFound = fmt.Errorf("db: key not found")

// ErrConflict is returned by WriteTx.Commit when a key read during the
// transaction was modified by another writer before commit: optimistic
// concurrency control, not a lock.
var ErrConflict = fmt.Errorf("db: write conflict, retry transaction")

// Backend names, as selected by client.DatabaseFromConfig. Only TypeInMem
// and TypePebble have an implementation in this module.
const (
	TypePebble  = "pebble"
	TypeLevelDB = "leveldb"
	TypeMongo   = "mongo"
	TypeInMem   = "inmem"
)

// Options configures a backend at construction time. Path is ignored by
// backends that don't persist to disk (inmemory).
type Options struct {
	Path string
}

// Database is a key/value store supporting point reads, prefix iteration,
// and transactional writes with optimistic-concurrency commit.
type Database interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)
	// Iterate calls callback for every key with the given prefix, in
	// ascending key order, stopping early if callback returns false.
	Iterate(prefix []byte, callback func(key, value []byte) bool) error
	// WriteTx opens a new transaction. Writes are invisible to other
	// readers/writers until Commit succeeds.
	WriteTx() WriteTx
	// Compact reclaims space from deleted/overwritten keys. A no-op for
	// backends that don't need it.
	Compact() error
	Close() error
}

// WriteTx is a single read/write transaction. In db/inmemory every key read
// through Get or Iterate is tracked, and Commit fails with ErrConflict if
// any of them changed since the transaction began. db/pebbledb tracks no
// reads; its Commit never returns ErrConflict.
type WriteTx interface {
	Get(key []byte) ([]byte, error)
	Iterate(prefix []byte, callback func(key, value []byte) bool) error
	Set(key, value []byte) error
	Delete(key []byte) error
	// Apply merges every key/value written in other into this
	// transaction, as if each had been Set here directly.
	Apply(other WriteTx) error
	Commit() error
	// Discard abandons the transaction. Safe to call after Commit.
	Discard()
}
