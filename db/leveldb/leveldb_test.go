package leveldb

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-bhp/db"
	"github.com/vocdoni/gnark-bhp/db/internal/dbtest"
)

func newDB(t *testing.T) db.Database {
	database, err := New(db.Options{Path: t.TempDir()})
	qt.Assert(t, err, qt.IsNil)
	t.Cleanup(func() { _ = database.Close() })
	return database
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
