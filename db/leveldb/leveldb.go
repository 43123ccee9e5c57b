package leveldb

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/vocdoni/gnark-bhp/db"
)

// LevelDB implements db.Database on top of goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

var _ db.Database = (*LevelDB)(nil)

// New opens (or creates) the leveldb database at opts.Path.
func New(opts db.Options) (*LevelDB, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("leveldb: empty path")
	}
	ldb, err := leveldb.OpenFile(opts.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("leveldb: open %s: %w", opts.Path, err)
	}
	return &LevelDB{db: ldb}, nil
}

func (d *LevelDB) Get(key []byte) ([]byte, error) {
	v, err := d.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return bytes.Clone(v), nil
}

func (d *LevelDB) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	var rng *util.Range
	if len(prefix) > 0 {
		rng = util.BytesPrefix(prefix)
	}
	iter := d.db.NewIterator(rng, nil)
	defer iter.Release()
	for iter.Next() {
		if !callback(iter.Key(), iter.Value()) {
			break
		}
	}
	return iter.Error()
}

// WriteTx returns a transaction written as a single synced batch on Commit.
func (d *LevelDB) WriteTx() db.WriteTx {
	return db.NewBufferedTx(d, func(writes map[string][]byte) error {
		batch := new(leveldb.Batch)
		for k, v := range writes {
			if v == nil {
				batch.Delete([]byte(k))
				continue
			}
			batch.Put([]byte(k), v)
		}
		return d.db.Write(batch, &opt.WriteOptions{Sync: true})
	})
}

func (d *LevelDB) Close() error {
	return d.db.Close()
}

func (d *LevelDB) Compact() error {
	return d.db.CompactRange(util.Range{})
}
