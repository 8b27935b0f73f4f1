package client

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mentalpoker/shuffle-core/config"
	"github.com/mentalpoker/shuffle-core/keys"
	"github.com/mentalpoker/shuffle-core/prover"
)

func TestCreateGameFromConfig(t *testing.T) {
	c := qt.New(t)
	cfg, err := config.Load(nil)
	c.Assert(err, qt.IsNil)
	cfg.Game.NumPlayers = 3
	cfg.Game.NumCards = 6

	g, curve, err := CreateGameFromConfig(cfg, 42)
	c.Assert(err, qt.IsNil)
	c.Assert(g.NumPlayers, qt.Equals, 3)
	c.Assert(g.NumCards, qt.Equals, 6)
	c.Assert(curve, qt.Not(qt.IsNil))
}

func TestNewFromConfig(t *testing.T) {
	c := qt.New(t)
	cfg, err := config.Load(nil)
	c.Assert(err, qt.IsNil)

	g, curve, err := CreateGameFromConfig(cfg, 7)
	c.Assert(err, qt.IsNil)
	c.Assert(g.BeginRegistration(), qt.IsNil)

	kp, err := keys.Generate(curve)
	c.Assert(err, qt.IsNil)

	player, s, err := NewFromConfig(cfg, 0, 7, kp, &prover.MockProver{}, stubAssignment)
	c.Assert(err, qt.IsNil)
	c.Assert(player.PollInterval, qt.Equals, cfg.Client.PollInterval)
	c.Assert(player.MaxBackoff, qt.Equals, cfg.Client.PollMaxBackoff)

	c.Assert(s.Save(g), qt.IsNil)
	loaded, err := s.Load(7)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.ID, qt.Equals, uint64(7))
}
