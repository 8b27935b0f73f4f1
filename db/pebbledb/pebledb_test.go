package pebbledb

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mentalpoker/shuffle-core/db"
)

func TestWriteTxSetGetCommit(t *testing.T) {
	c := qt.New(t)
	database, err := New(db.Options{Path: t.TempDir()})
	c.Assert(err, qt.IsNil)
	defer database.Close()

	tx := database.WriteTx()
	c.Assert(tx.Set([]byte("k"), []byte("v")), qt.IsNil)
	c.Assert(tx.Commit(), qt.IsNil)

	got, err := database.Get([]byte("k"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "v")
}

func TestGetMissingKey(t *testing.T) {
	c := qt.New(t)
	database, err := New(db.Options{Path: t.TempDir()})
	c.Assert(err, qt.IsNil)
	defer database.Close()

	_, err = database.Get([]byte("missing"))
	c.Assert(err, qt.Equals, db.ErrKeyNotFound)
}

func TestIteratePrefix(t *testing.T) {
	c := qt.New(t)
	database, err := New(db.Options{Path: t.TempDir()})
	c.Assert(err, qt.IsNil)
	defer database.Close()

	tx := database.WriteTx()
	c.Assert(tx.Set([]byte("a/1"), []byte("1")), qt.IsNil)
	c.Assert(tx.Set([]byte("a/2"), []byte("2")), qt.IsNil)
	c.Assert(tx.Set([]byte("b/1"), []byte("3")), qt.IsNil)
	c.Assert(tx.Commit(), qt.IsNil)

	var keys []string
	c.Assert(database.Iterate([]byte("a/"), func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	}), qt.IsNil)
	c.Assert(keys, qt.DeepEquals, []string{"1", "2"})
}

func TestWriteTxApply(t *testing.T) {
	c := qt.New(t)
	database, err := New(db.Options{Path: t.TempDir()})
	c.Assert(err, qt.IsNil)
	defer database.Close()

	src := database.WriteTx()
	c.Assert(src.Set([]byte("k1"), []byte("v1")), qt.IsNil)

	dst := database.WriteTx()
	c.Assert(dst.Apply(src), qt.IsNil)
	c.Assert(dst.Commit(), qt.IsNil)

	got, err := database.Get([]byte("k1"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "v1")
}

func TestCommitTwiceFails(t *testing.T) {
	c := qt.New(t)
	database, err := New(db.Options{Path: t.TempDir()})
	c.Assert(err, qt.IsNil)
	defer database.Close()

	tx := database.WriteTx()
	c.Assert(tx.Set([]byte("k"), []byte("v")), qt.IsNil)
	c.Assert(tx.Commit(), qt.IsNil)
	c.Assert(tx.Commit(), qt.Not(qt.IsNil))
}
