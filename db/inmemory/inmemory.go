package inmemory

import (
	"bytes"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/vocdoni/gnark-bhp/db"
)

// InMemoryDB implements an ephemeral in-memory db.Database.
type InMemoryDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// Ensure that InMemoryDB implements the db.Database interface.
var _ db.Database = (*InMemoryDB)(nil)

// New returns a new in-memory database. Options are ignored.
func New(_ db.Options) (*InMemoryDB, error) {
	return &InMemoryDB{data: make(map[string][]byte)}, nil
}

func (d *InMemoryDB) Close() error {
	return nil
}

func (d *InMemoryDB) Compact() error {
	return nil
}

func (d *InMemoryDB) Get(key []byte) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.data[string(key)]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

func (d *InMemoryDB) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	d.mu.RLock()
	entries := make(map[string][]byte)
	for k, v := range d.data {
		if strings.HasPrefix(k, string(prefix)) {
			entries[k] = bytes.Clone(v)
		}
	}
	d.mu.RUnlock()
	for _, k := range slices.Sorted(maps.Keys(entries)) {
		if !callback([]byte(k), entries[k]) {
			break
		}
	}
	return nil
}

// WriteTx returns a transaction applied atomically on Commit.
func (d *InMemoryDB) WriteTx() db.WriteTx {
	return db.NewBufferedTx(d, func(writes map[string][]byte) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		for k, v := range writes {
			if v == nil {
				delete(d.data, k)
				continue
			}
			d.data[k] = bytes.Clone(v)
		}
		return nil
	})
}
