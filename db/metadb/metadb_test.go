package metadb

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNew(t *testing.T) {
	c := qt.New(t)
	for _, typ := range Types {
		database, err := New(typ, filepath.Join(t.TempDir(), typ))
		c.Assert(err, qt.IsNil, qt.Commentf("%s", typ))

		wTx := database.WriteTx()
		c.Assert(wTx.Set([]byte("k"), []byte("v")), qt.IsNil)
		c.Assert(wTx.Commit(), qt.IsNil)
		v, err := database.Get([]byte("k"))
		c.Assert(err, qt.IsNil)
		c.Assert(string(v), qt.Equals, "v")
		c.Assert(database.Close(), qt.IsNil)
	}

	_, err := New("badger", t.TempDir())
	c.Assert(err, qt.ErrorMatches, `invalid db type "badger".*`)
}
