// Package metadb opens a db.Database by backend name.
package metadb

import (
	"fmt"
	"testing"

	"github.com/vocdoni/gnark-bhp/db"
	"github.com/vocdoni/gnark-bhp/db/inmemory"
	"github.com/vocdoni/gnark-bhp/db/leveldb"
	"github.com/vocdoni/gnark-bhp/db/pebbledb"
)

// Types lists the supported backends.
var Types = []string{db.TypePebble, db.TypeLevelDB, db.TypeInMem}

// New opens a database of type typ in dir.
func New(typ, dir string) (db.Database, error) {
	opts := db.Options{Path: dir}
	switch typ {
	case db.TypePebble:
		return pebbledb.New(opts)
	case db.TypeLevelDB:
		return leveldb.New(opts)
	case db.TypeInMem:
		return inmemory.New(opts)
	default:
		return nil, fmt.Errorf("invalid db type %q, available types: %v", typ, Types)
	}
}

// NewTest returns a pebble database in a temporary directory, closed when the
// test ends.
func NewTest(tb testing.TB) db.Database {
	database, err := New(db.TypePebble, tb.TempDir())
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := database.Close(); err != nil {
			tb.Error(err)
		}
	})
	return database
}
