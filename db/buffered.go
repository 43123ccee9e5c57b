package db

import (
	"bytes"
	"maps"
	"slices"
	"strings"
)

// BufferedTx is a WriteTx keeping its writes in memory and handing them to a
// flush function on Commit. Backends without native read-your-writes batches
// build on it.
type BufferedTx struct {
	reader Reader
	writes map[string][]byte // nil value marks a deletion
	flush  func(writes map[string][]byte) error
	done   bool
}

var _ WriteTx = (*BufferedTx)(nil)

// NewBufferedTx returns a transaction reading through reader.
func NewBufferedTx(reader Reader, flush func(writes map[string][]byte) error) *BufferedTx {
	return &BufferedTx{reader: reader, writes: map[string][]byte{}, flush: flush}
}

func (tx *BufferedTx) Get(key []byte) ([]byte, error) {
	if v, ok := tx.writes[string(key)]; ok {
		if v == nil {
			return nil, ErrKeyNotFound
		}
		return bytes.Clone(v), nil
	}
	return tx.reader.Get(key)
}

func (tx *BufferedTx) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	entries := map[string][]byte{}
	if err := tx.reader.Iterate(prefix, func(k, v []byte) bool {
		entries[string(k)] = bytes.Clone(v)
		return true
	}); err != nil {
		return err
	}
	for k, v := range tx.writes {
		if !strings.HasPrefix(k, string(prefix)) {
			continue
		}
		if v == nil {
			delete(entries, k)
			continue
		}
		entries[k] = v
	}
	for _, k := range slices.Sorted(maps.Keys(entries)) {
		if !callback([]byte(k), entries[k]) {
			break
		}
	}
	return nil
}

func (tx *BufferedTx) Set(key, value []byte) error {
	if tx.done {
		return ErrTxDone
	}
	v := bytes.Clone(value)
	if v == nil {
		v = []byte{}
	}
	tx.writes[string(key)] = v
	return nil
}

func (tx *BufferedTx) Delete(key []byte) error {
	if tx.done {
		return ErrTxDone
	}
	tx.writes[string(key)] = nil
	return nil
}

func (tx *BufferedTx) Apply(other WriteTx) error {
	var err error
	if ierr := other.Iterate(nil, func(k, v []byte) bool {
		err = tx.Set(k, v)
		return err == nil
	}); ierr != nil {
		return ierr
	}
	return err
}

func (tx *BufferedTx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	if err := tx.flush(tx.writes); err != nil {
		return err
	}
	tx.done = true
	tx.writes = map[string][]byte{}
	return nil
}

func (tx *BufferedTx) Discard() {
	tx.done = true
	tx.writes = map[string][]byte{}
}
