package client

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/consensys/gnark/frontend"

	"github.com/mentalpoker/shuffle-core/crypto/ecc/bjj"
	"github.com/mentalpoker/shuffle-core/db"
	"github.com/mentalpoker/shuffle-core/db/inmemory"
	"github.com/mentalpoker/shuffle-core/game"
	"github.com/mentalpoker/shuffle-core/keys"
	"github.com/mentalpoker/shuffle-core/prover"
	"github.com/mentalpoker/shuffle-core/store"
)

// stubCircuit is a bare frontend.Circuit carrying no constraints; it exists
// only so tests can hand Prover.Prove something concrete without a real
// compiled circuit.
type stubCircuit struct{}

func (stubCircuit) Define(_ frontend.API) error { return nil }

func stubAssignment(prover.CircuitKind, any) (frontend.Circuit, error) {
	return &stubCircuit{}, nil
}

func newTestFixture(c *qt.C, numPlayers int) (*store.Store, []*Player, uint64) {
	curve := bjj.New()
	const gameID = uint64(1)
	const numCards = 4

	g, err := game.CreateGame(curve, gameID, numPlayers, numCards)
	c.Assert(err, qt.IsNil)
	c.Assert(g.BeginRegistration(), qt.IsNil)

	kps := make([]*keys.KeyPair, numPlayers)
	for i := 0; i < numPlayers; i++ {
		kp, err := keys.Generate(curve)
		c.Assert(err, qt.IsNil)
		kps[i] = kp
		_, err = g.Register("addr", kp.PublicKey)
		c.Assert(err, qt.IsNil)
	}
	c.Assert(g.State, qt.Equals, game.StateShuffle)

	database, err := inmemory.New(db.Options{})
	c.Assert(err, qt.IsNil)
	s := store.New(database, bjj.New())
	c.Assert(s.Save(g), qt.IsNil)

	players := make([]*Player, numPlayers)
	for i := 0; i < numPlayers; i++ {
		players[i] = New(i, gameID, kps[i], bjj.New(), s, &prover.MockProver{}, stubAssignment)
	}
	return s, players, gameID
}

func TestPollActsOnlyOnOwnShuffleTurn(t *testing.T) {
	c := qt.New(t)
	s, players, gameID := newTestFixture(c, 2)

	acted, err := players[1].poll()
	c.Assert(err, qt.IsNil)
	c.Assert(acted, qt.IsFalse)

	acted, err = players[0].poll()
	c.Assert(err, qt.IsNil)
	c.Assert(acted, qt.IsTrue)

	g, err := s.Load(gameID)
	c.Assert(err, qt.IsNil)
	c.Assert(g.State, qt.Equals, game.StateShuffle)
	c.Assert(g.Turn, qt.Equals, 1)
}

func TestFullHandDealsAndOpensAllCards(t *testing.T) {
	c := qt.New(t)
	s, players, gameID := newTestFixture(c, 2)

	acted, err := players[0].poll()
	c.Assert(err, qt.IsNil)
	c.Assert(acted, qt.IsTrue)
	acted, err = players[1].poll()
	c.Assert(err, qt.IsNil)
	c.Assert(acted, qt.IsTrue)

	g, err := s.Load(gameID)
	c.Assert(err, qt.IsNil)
	c.Assert(g.State, qt.Equals, game.StateDeal)

	for round := 0; round < 10; round++ {
		g, err := s.Load(gameID)
		c.Assert(err, qt.IsNil)
		if g.State == game.StateOpen || g.State == game.StateComplete {
			break
		}
		for _, p := range players {
			_, err := p.poll()
			c.Assert(err, qt.IsNil)
		}
	}

	g, err = s.Load(gameID)
	c.Assert(err, qt.IsNil)
	c.Assert(g.State, qt.Equals, game.StateOpen)

	for round := 0; round < 10; round++ {
		g, err := s.Load(gameID)
		c.Assert(err, qt.IsNil)
		allResolved := true
		for i := 0; i < g.NumCards; i++ {
			if cd, ok := g.Deals[i]; !ok || !cd.Resolved {
				allResolved = false
			}
		}
		if allResolved {
			break
		}
		for _, p := range players {
			_, err := p.poll()
			c.Assert(err, qt.IsNil)
		}
	}

	g, err = s.Load(gameID)
	c.Assert(err, qt.IsNil)
	for i := 0; i < g.NumCards; i++ {
		cd, ok := g.Deals[i]
		c.Assert(ok, qt.IsTrue)
		c.Assert(cd.Resolved, qt.IsTrue, qt.Commentf("card %d not resolved", i))
	}
}

func TestBackoffGrowsWithConsecutiveErrorsAndCaps(t *testing.T) {
	c := qt.New(t)
	c.Assert(backoff(time.Second, 0, 10*time.Second), qt.Equals, time.Second)
	c.Assert(backoff(time.Second, 1, 10*time.Second), qt.Equals, 2*time.Second)
	c.Assert(backoff(time.Second, 2, 10*time.Second), qt.Equals, 4*time.Second)
	c.Assert(backoff(time.Second, 10, 10*time.Second), qt.Equals, 10*time.Second)
}
