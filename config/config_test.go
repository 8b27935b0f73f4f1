package config

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)
	cfg, err := Load(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Game.Curve, qt.Equals, "bjj")
	c.Assert(cfg.Game.NumCards, qt.Equals, 52)
	c.Assert(cfg.Store.Backend, qt.Equals, "inmem")
	c.Assert(cfg.Client.PollInterval.Seconds(), qt.Equals, float64(5))
}

func TestLoadReadsEnvOverride(t *testing.T) {
	c := qt.New(t)
	t.Setenv("MPOKER_GAME_NUMPLAYERS", "6")
	t.Setenv("MPOKER_STORE_BACKEND", "pebble")

	cfg, err := Load(viper.New())
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Game.NumPlayers, qt.Equals, 6)
	c.Assert(cfg.Store.Backend, qt.Equals, "pebble")
}
