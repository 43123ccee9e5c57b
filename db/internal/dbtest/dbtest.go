// Package dbtest holds the behaviour every db.Database backend must share.
package dbtest

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-bhp/db"
)

// TestWriteTx checks read-your-writes, commit and discard semantics.
func TestWriteTx(t *testing.T, database db.Database) {
	c := qt.New(t)

	wTx := database.WriteTx()
	c.Assert(wTx.Set([]byte("a"), []byte("1")), qt.IsNil)
	v, err := wTx.Get([]byte("a"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("1"))

	_, err = database.Get([]byte("a"))
	c.Assert(err, qt.ErrorIs, db.ErrKeyNotFound)

	c.Assert(wTx.Commit(), qt.IsNil)
	c.Assert(wTx.Set([]byte("b"), []byte("2")), qt.ErrorIs, db.ErrTxDone)
	wTx.Discard()

	v, err = database.Get([]byte("a"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("1"))

	wTx = database.WriteTx()
	c.Assert(wTx.Set([]byte("c"), []byte("3")), qt.IsNil)
	c.Assert(wTx.Delete([]byte("a")), qt.IsNil)
	_, err = wTx.Get([]byte("a"))
	c.Assert(err, qt.ErrorIs, db.ErrKeyNotFound)
	wTx.Discard()

	_, err = database.Get([]byte("c"))
	c.Assert(err, qt.ErrorIs, db.ErrKeyNotFound)
	_, err = database.Get([]byte("a"))
	c.Assert(err, qt.IsNil)

	wTx = database.WriteTx()
	c.Assert(wTx.Delete([]byte("a")), qt.IsNil)
	c.Assert(wTx.Commit(), qt.IsNil)
	_, err = database.Get([]byte("a"))
	c.Assert(err, qt.ErrorIs, db.ErrKeyNotFound)
}

// TestIterate checks prefix iteration order and early termination.
func TestIterate(t *testing.T, database db.Database) {
	c := qt.New(t)

	wTx := database.WriteTx()
	for i := range 10 {
		c.Assert(wTx.Set(fmt.Appendf(nil, "p/%02d", i), []byte{byte(i)}), qt.IsNil)
	}
	c.Assert(wTx.Set([]byte("q/00"), []byte{0xff}), qt.IsNil)
	c.Assert(wTx.Commit(), qt.IsNil)

	var keys []string
	c.Assert(database.Iterate([]byte("p/"), func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	}), qt.IsNil)
	c.Assert(keys, qt.HasLen, 10)
	for i, k := range keys {
		c.Assert(k, qt.Equals, fmt.Sprintf("p/%02d", i))
	}

	count := 0
	c.Assert(database.Iterate([]byte("p/"), func(k, v []byte) bool {
		count++
		return count < 3
	}), qt.IsNil)
	c.Assert(count, qt.Equals, 3)

	// Pending writes are merged into the transaction view.
	wTx = database.WriteTx()
	defer wTx.Discard()
	c.Assert(wTx.Delete([]byte("p/00")), qt.IsNil)
	c.Assert(wTx.Set([]byte("p/10"), []byte{10}), qt.IsNil)
	keys = keys[:0]
	c.Assert(wTx.Iterate([]byte("p/"), func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	}), qt.IsNil)
	c.Assert(keys, qt.HasLen, 10)
	c.Assert(keys[0], qt.Equals, "p/01")
	c.Assert(keys[9], qt.Equals, "p/10")
}

// TestApply checks copying one transaction into another.
func TestApply(t *testing.T, database db.Database) {
	c := qt.New(t)

	src := database.WriteTx()
	defer src.Discard()
	c.Assert(src.Set([]byte("apply/x"), []byte("x")), qt.IsNil)
	c.Assert(src.Set([]byte("apply/y"), []byte("y")), qt.IsNil)

	dst := database.WriteTx()
	c.Assert(dst.Apply(src), qt.IsNil)
	c.Assert(dst.Commit(), qt.IsNil)

	v, err := database.Get([]byte("apply/y"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("y"))
	c.Assert(database.Compact(), qt.IsNil)
}
