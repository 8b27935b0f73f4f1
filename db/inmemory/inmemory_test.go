package inmemory

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mentalpoker/shuffle-core/db"
)

func TestSetGetCommit(t *testing.T) {
	c := qt.New(t)
	d, err := New(db.Options{})
	c.Assert(err, qt.IsNil)

	tx := d.WriteTx()
	c.Assert(tx.Set([]byte("k"), []byte("v")), qt.IsNil)
	c.Assert(tx.Commit(), qt.IsNil)

	got, err := d.Get([]byte("k"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "v")
}

func TestGetMissingKeyFails(t *testing.T) {
	c := qt.New(t)
	d, err := New(db.Options{})
	c.Assert(err, qt.IsNil)

	_, err = d.Get([]byte("missing"))
	c.Assert(err, qt.Equals, db.ErrKeyNotFound)
}

func TestConcurrentCommitDetectsConflict(t *testing.T) {
	c := qt.New(t)
	d, err := New(db.Options{})
	c.Assert(err, qt.IsNil)

	setup := d.WriteTx()
	c.Assert(setup.Set([]byte("k"), []byte("1")), qt.IsNil)
	c.Assert(setup.Commit(), qt.IsNil)

	txA := d.WriteTx()
	txB := d.WriteTx()

	_, err = txA.Get([]byte("k"))
	c.Assert(err, qt.IsNil)
	c.Assert(txA.Set([]byte("k"), []byte("2")), qt.IsNil)
	c.Assert(txA.Commit(), qt.IsNil)

	_, err = txB.Get([]byte("k"))
	c.Assert(err, qt.IsNil)
	c.Assert(txB.Set([]byte("k"), []byte("3")), qt.IsNil)
	c.Assert(txB.Commit(), qt.Equals, db.ErrConflict)
}

func TestIteratePrefixOrdered(t *testing.T) {
	c := qt.New(t)
	d, err := New(db.Options{})
	c.Assert(err, qt.IsNil)

	tx := d.WriteTx()
	c.Assert(tx.Set([]byte("a/2"), []byte("two")), qt.IsNil)
	c.Assert(tx.Set([]byte("a/1"), []byte("one")), qt.IsNil)
	c.Assert(tx.Set([]byte("b/1"), []byte("other")), qt.IsNil)
	c.Assert(tx.Commit(), qt.IsNil)

	var keys []string
	c.Assert(d.Iterate([]byte("a/"), func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	}), qt.IsNil)
	c.Assert(keys, qt.DeepEquals, []string{"a/1", "a/2"})
}

func TestDeleteThenGetNotFound(t *testing.T) {
	c := qt.New(t)
	d, err := New(db.Options{})
	c.Assert(err, qt.IsNil)

	tx := d.WriteTx()
	c.Assert(tx.Set([]byte("k"), []byte("v")), qt.IsNil)
	c.Assert(tx.Commit(), qt.IsNil)

	tx2 := d.WriteTx()
	c.Assert(tx2.Delete([]byte("k")), qt.IsNil)
	c.Assert(tx2.Commit(), qt.IsNil)

	_, err = d.Get([]byte("k"))
	c.Assert(err, qt.Equals, db.ErrKeyNotFound)
}
