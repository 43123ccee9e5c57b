/*
Package storage persists derived BHP base tables so that processes sharing a
data directory derive each (parameters, domain) table once.

# Storage Organization

The storage uses a key-value database with prefixed namespaces:

  - t/ : "<windows>x<window size>/<domain>" → CBOR encoded base table
    (window generators and randomizer base)

Decoded tables are kept in an LRU cache; a cached table is returned without
touching the database.
*/
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vocdoni/gnark-bhp/crypto/bhp"
	"github.com/vocdoni/gnark-bhp/db"
	"github.com/vocdoni/gnark-bhp/db/metadb"
	"github.com/vocdoni/gnark-bhp/db/prefixeddb"
	"github.com/vocdoni/gnark-bhp/log"
)

// DefaultCacheSize is the number of decoded tables kept in memory.
const DefaultCacheSize = 16

var tablePrefix = []byte("t/")

// BaseStore stores base tables in a db.Database. It implements
// bhp.TableStore.
type BaseStore struct {
	db     db.Database
	tables db.Database
	lock   sync.Mutex // serialises writes and cache fills
	cache  *lru.Cache[string, *bhp.BaseTable]
}

var _ bhp.TableStore = (*BaseStore)(nil)

// New returns a BaseStore over database caching up to cacheSize decoded
// tables. A non positive cacheSize selects DefaultCacheSize.
func New(database db.Database, cacheSize int) (*BaseStore, error) {
	if database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *bhp.BaseTable](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &BaseStore{
		db:     database,
		tables: prefixeddb.NewPrefixedDatabase(database, tablePrefix),
		cache:  cache,
	}, nil
}

// Open opens the database backend typ in datadir and wraps it in a
// BaseStore. Close releases the database.
func Open(typ, datadir string, cacheSize int) (*BaseStore, error) {
	database, err := metadb.New(typ, datadir)
	if err != nil {
		return nil, err
	}
	s, err := New(database, cacheSize)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *BaseStore) Close() error {
	s.cache.Purge()
	return s.db.Close()
}

// Load returns the stored table of params and domain, or
// bhp.ErrTableNotFound.
func (s *BaseStore) Load(params bhp.Parameters, domain string) (*bhp.BaseTable, error) {
	key := tableKey(params, domain)
	if t, ok := s.cache.Get(string(key)); ok {
		return t, nil
	}
	data, err := s.tables.Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s %q", bhp.ErrTableNotFound, params, domain)
	}
	if err != nil {
		return nil, fmt.Errorf("load base table %s %q: %w", params, domain, err)
	}
	t, err := bhp.DecodeTable(data, params, domain)
	if err != nil {
		return nil, err
	}
	s.cacheIfCurrent(key, data, t)
	return t, nil
}

// cacheIfCurrent caches t only while data is still the stored record of key,
// so a Delete or Store racing with the decode is not undone.
func (s *BaseStore) cacheIfCurrent(key, data []byte, t *bhp.BaseTable) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	current, err := s.tables.Get(key)
	if err != nil || !bytes.Equal(current, data) {
		return false
	}
	s.cache.Add(string(key), t)
	return true
}

// Store persists t, replacing any table stored for the same parameters and
// domain.
func (s *BaseStore) Store(t *bhp.BaseTable) error {
	data, err := t.MarshalCBOR()
	if err != nil {
		return fmt.Errorf("encode base table: %w", err)
	}
	key := tableKey(t.Parameters(), t.Domain())

	s.lock.Lock()
	defer s.lock.Unlock()
	wTx := s.tables.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(key, data); err != nil {
		return fmt.Errorf("store base table: %w", err)
	}
	if err := wTx.Commit(); err != nil {
		return fmt.Errorf("store base table: %w", err)
	}
	s.cache.Add(string(key), t)
	log.Debugw("bhp base table stored", "params", t.Parameters().String(), "domain", t.Domain(), "size", len(data))
	return nil
}

// Delete removes the table of params and domain. Deleting an absent table
// is not an error.
func (s *BaseStore) Delete(params bhp.Parameters, domain string) error {
	key := tableKey(params, domain)

	s.lock.Lock()
	defer s.lock.Unlock()
	s.cache.Remove(string(key))
	wTx := s.tables.WriteTx()
	defer wTx.Discard()
	if err := wTx.Delete(key); err != nil {
		return err
	}
	return wTx.Commit()
}

// TableInfo identifies a stored table.
type TableInfo struct {
	Params bhp.Parameters `json:"params"`
	Domain string         `json:"domain"`
}

// List returns every stored table in key order.
func (s *BaseStore) List() ([]TableInfo, error) {
	var (
		infos []TableInfo
		perr  error
	)
	if err := s.tables.Iterate(nil, func(k, _ []byte) bool {
		var info TableInfo
		info, perr = parseTableKey(k)
		if perr != nil {
			return false
		}
		infos = append(infos, info)
		return true
	}); err != nil {
		return nil, err
	}
	if perr != nil {
		return nil, perr
	}
	return infos, nil
}
