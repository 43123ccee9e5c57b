// Package db defines the key/value store used to persist derived base tables,
// with pebble, leveldb and in-memory backends in its subpackages.
package db

import "errors"

const (
	TypePebble  = "pebble"
	TypeLevelDB = "leveldb"
	TypeInMem   = "inmem"
)

var (
	// ErrKeyNotFound is returned by Get for absent keys.
	ErrKeyNotFound = errors.New("key not found")
	// ErrTxDone is returned when using a committed or discarded WriteTx.
	ErrTxDone = errors.New("transaction already committed or discarded")
)

// Options configures a backend.
type Options struct {
	Path string
}

// Reader is the read side of a Database or WriteTx.
type Reader interface {
	// Get returns a copy of the value of key or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)
	// Iterate calls callback for every key with the given prefix, in key
	// order, until callback returns false. Slices are only valid during the
	// call.
	Iterate(prefix []byte, callback func(key, value []byte) bool) error
}

// WriteTx buffers writes until Commit. Reads see the pending writes.
type WriteTx interface {
	Reader
	Set(key, value []byte) error
	Delete(key []byte) error
	// Apply copies every key of other into the transaction.
	Apply(other WriteTx) error
	Commit() error
	// Discard drops the pending writes. It is safe after Commit.
	Discard()
}

// Database is a key/value store.
type Database interface {
	Reader
	WriteTx() WriteTx
	Close() error
	Compact() error
}
