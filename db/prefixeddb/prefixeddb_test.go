package prefixeddb

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-bhp/db"
	"github.com/vocdoni/gnark-bhp/db/inmemory"
	"github.com/vocdoni/gnark-bhp/db/internal/dbtest"
)

func newDB(t *testing.T) db.Database {
	database, err := inmemory.New(db.Options{})
	qt.Assert(t, err, qt.IsNil)
	return NewPrefixedDatabase(database, []byte("one/"))
}

func TestWriteTx(t *testing.T) {
	dbtest.TestWriteTx(t, newDB(t))
}

func TestIterate(t *testing.T) {
	dbtest.TestIterate(t, newDB(t))
}

func TestApply(t *testing.T) {
	dbtest.TestApply(t, newDB(t))
}

func TestIsolation(t *testing.T) {
	c := qt.New(t)
	database, err := inmemory.New(db.Options{})
	c.Assert(err, qt.IsNil)
	one := NewPrefixedDatabase(database, []byte("one/"))
	two := NewPrefixedDatabase(database, []byte("two/"))

	wTx := one.WriteTx()
	c.Assert(wTx.Set([]byte("k"), []byte("v1")), qt.IsNil)
	c.Assert(wTx.Commit(), qt.IsNil)

	_, err = two.Get([]byte("k"))
	c.Assert(err, qt.ErrorIs, db.ErrKeyNotFound)
	v, err := database.Get([]byte("one/k"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("v1"))

	var keys []string
	c.Assert(one.Iterate(nil, func(k, _ []byte) bool {
		keys = append(keys, string(k))
		return true
	}), qt.IsNil)
	c.Assert(keys, qt.DeepEquals, []string{"k"})
}
