// Package prefixeddb scopes a db.Database to the keys under a fixed prefix.
package prefixeddb

import (
	"bytes"

	"github.com/vocdoni/gnark-bhp/db"
)

func prefixed(prefix, key []byte) []byte {
	return append(bytes.Clone(prefix), key...)
}

// PrefixedDatabase exposes the keys of an underlying database that start
// with prefix, with the prefix stripped.
type PrefixedDatabase struct {
	db     db.Database
	prefix []byte
}

var _ db.Database = (*PrefixedDatabase)(nil)

// NewPrefixedDatabase returns a view of database restricted to prefix.
func NewPrefixedDatabase(database db.Database, prefix []byte) *PrefixedDatabase {
	return &PrefixedDatabase{db: database, prefix: bytes.Clone(prefix)}
}

func (d *PrefixedDatabase) Get(key []byte) ([]byte, error) {
	return d.db.Get(prefixed(d.prefix, key))
}

func (d *PrefixedDatabase) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return d.db.Iterate(prefixed(d.prefix, prefix), func(k, v []byte) bool {
		return callback(k[len(d.prefix):], v)
	})
}

func (d *PrefixedDatabase) WriteTx() db.WriteTx {
	return &PrefixedWriteTx{tx: d.db.WriteTx(), prefix: d.prefix}
}

// Close does nothing: the underlying database belongs to the caller.
func (d *PrefixedDatabase) Close() error {
	return nil
}

func (d *PrefixedDatabase) Compact() error {
	return d.db.Compact()
}

// PrefixedWriteTx scopes a db.WriteTx to a prefix.
type PrefixedWriteTx struct {
	tx     db.WriteTx
	prefix []byte
}

var _ db.WriteTx = (*PrefixedWriteTx)(nil)

func (tx *PrefixedWriteTx) Get(key []byte) ([]byte, error) {
	return tx.tx.Get(prefixed(tx.prefix, key))
}

func (tx *PrefixedWriteTx) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return tx.tx.Iterate(prefixed(tx.prefix, prefix), func(k, v []byte) bool {
		return callback(k[len(tx.prefix):], v)
	})
}

func (tx *PrefixedWriteTx) Set(key, value []byte) error {
	return tx.tx.Set(prefixed(tx.prefix, key), value)
}

func (tx *PrefixedWriteTx) Delete(key []byte) error {
	return tx.tx.Delete(prefixed(tx.prefix, key))
}

func (tx *PrefixedWriteTx) Apply(other db.WriteTx) error {
	var err error
	if ierr := other.Iterate(nil, func(k, v []byte) bool {
		err = tx.Set(k, v)
		return err == nil
	}); ierr != nil {
		return ierr
	}
	return err
}

func (tx *PrefixedWriteTx) Commit() error {
	return tx.tx.Commit()
}

func (tx *PrefixedWriteTx) Discard() {
	tx.tx.Discard()
}
