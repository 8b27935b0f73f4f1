package store

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/crypto/ecc/bjj"
	"github.com/mentalpoker/shuffle-core/db"
	"github.com/mentalpoker/shuffle-core/db/inmemory"
	"github.com/mentalpoker/shuffle-core/game"
	"github.com/mentalpoker/shuffle-core/keys"
)

func newTestStore(c *qt.C) *Store {
	database, err := inmemory.New(db.Options{})
	c.Assert(err, qt.IsNil)
	return New(database, bjj.New())
}

func TestSaveLoadRoundTripsRegisteredGame(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	s := newTestStore(c)

	g, err := game.CreateGame(curve, 7, 2, 4)
	c.Assert(err, qt.IsNil)
	c.Assert(g.BeginRegistration(), qt.IsNil)
	for i := 0; i < 2; i++ {
		kp, err := keys.Generate(curve)
		c.Assert(err, qt.IsNil)
		_, err = g.Register("addr", kp.PublicKey)
		c.Assert(err, qt.IsNil)
	}
	c.Assert(g.State, qt.Equals, game.StateShuffle)

	c.Assert(s.Save(g), qt.IsNil)
	loaded, err := s.Load(7)
	c.Assert(err, qt.IsNil)

	c.Assert(loaded.ID, qt.Equals, g.ID)
	c.Assert(loaded.State, qt.Equals, g.State)
	c.Assert(loaded.NumPlayers, qt.Equals, g.NumPlayers)
	c.Assert(loaded.NumCards, qt.Equals, g.NumCards)
	c.Assert(len(loaded.Players), qt.Equals, len(g.Players))

	lx, ly := loaded.AggregatedPk.Point()
	gx, gy := g.AggregatedPk.Point()
	c.Assert(lx.Cmp(gx), qt.Equals, 0)
	c.Assert(ly.Cmp(gy), qt.Equals, 0)

	for i := range g.Deck.X0 {
		c.Assert(loaded.Deck.X0[i].Cmp(g.Deck.X0[i]), qt.Equals, 0)
		c.Assert(loaded.Deck.X1[i].Cmp(g.Deck.X1[i]), qt.Equals, 0)
	}
	c.Assert(loaded.Deck.Selector0.Cmp(g.Deck.Selector0), qt.Equals, 0)
}

func TestLoadMissingGameFails(t *testing.T) {
	c := qt.New(t)
	s := newTestStore(c)
	_, err := s.Load(999)
	c.Assert(err, qt.Equals, ErrGameNotFound)
}

func TestSaveLoadRoundTripsCardDealProgress(t *testing.T) {
	c := qt.New(t)
	curve := bjj.New()
	s := newTestStore(c)

	g, err := game.CreateGame(curve, 1, 2, 2)
	c.Assert(err, qt.IsNil)

	share := curve.New()
	share.SetGenerator()
	g.Deals = map[int]*game.CardDeal{
		0: {
			Recipient: 0,
			Required:  0b10,
			Record:    0b10,
			Shares:    map[int]ecc.Point{1: share},
			Opened:    true,
			Y0:        curve.Order(),
			Y1:        curve.Order(),
		},
	}

	c.Assert(s.Save(g), qt.IsNil)
	loaded, err := s.Load(1)
	c.Assert(err, qt.IsNil)

	cd := loaded.Deals[0]
	c.Assert(cd, qt.Not(qt.IsNil))
	c.Assert(cd.Recipient, qt.Equals, 0)
	c.Assert(cd.Required, qt.Equals, uint64(0b10))
	c.Assert(cd.Record, qt.Equals, uint64(0b10))
	c.Assert(cd.Opened, qt.IsTrue)
	c.Assert(cd.Y0.Cmp(curve.Order()), qt.Equals, 0)

	sx, sy := cd.Shares[1].Point()
	ex, ey := share.Point()
	c.Assert(sx.Cmp(ex), qt.Equals, 0)
	c.Assert(sy.Cmp(ey), qt.Equals, 0)
}

func TestDeleteIsIdempotent(t *testing.T) {
	c := qt.New(t)
	s := newTestStore(c)
	c.Assert(s.Delete(42), qt.IsNil)
	c.Assert(s.Delete(42), qt.IsNil)
}
