package client

import (
	"fmt"

	"github.com/mentalpoker/shuffle-core/config"
	"github.com/mentalpoker/shuffle-core/crypto/ecc"
	"github.com/mentalpoker/shuffle-core/crypto/ecc/bjj"
	"github.com/mentalpoker/shuffle-core/db"
	"github.com/mentalpoker/shuffle-core/db/inmemory"
	"github.com/mentalpoker/shuffle-core/db/pebbledb"
	"github.com/mentalpoker/shuffle-core/game"
	"github.com/mentalpoker/shuffle-core/keys"
	"github.com/mentalpoker/shuffle-core/log"
	"github.com/mentalpoker/shuffle-core/prover"
	"github.com/mentalpoker/shuffle-core/store"
)

// CurveFromConfig resolves a config.GameConfig.Curve name to a concrete
// ecc.Point prototype. Only "bjj" (and the empty string, which viper
// resolves to GameConfig's default) is implemented.
func CurveFromConfig(name string) (ecc.Point, error) {
	switch name {
	case "", "bjj":
		return bjj.New(), nil
	default:
		return nil, fmt.Errorf("client: unsupported curve %q", name)
	}
}

// DatabaseFromConfig opens the db.Database backend cfg.Store selects.
func DatabaseFromConfig(cfg config.StoreConfig) (db.Database, error) {
	switch cfg.Backend {
	case "", db.TypeInMem:
		return inmemory.New(db.Options{})
	case db.TypePebble:
		return pebbledb.New(db.Options{Path: cfg.Path})
	default:
		return nil, fmt.Errorf("client: unsupported store backend %q", cfg.Backend)
	}
}

// CreateGameFromConfig allocates a new game.Game using cfg.Game's default
// curve, player count, and deck size, for callers that don't need to
// override any of them. Returns the curve prototype alongside the game
// since callers need it to build a Store and a Player over the same game.
func CreateGameFromConfig(cfg *config.Config, gameID uint64) (*game.Game, ecc.Point, error) {
	curve, err := CurveFromConfig(cfg.Game.Curve)
	if err != nil {
		return nil, nil, err
	}
	g, err := game.CreateGame(curve, gameID, cfg.Game.NumPlayers, cfg.Game.NumCards)
	if err != nil {
		return nil, nil, fmt.Errorf("client: create game: %w", err)
	}
	return g, curve, nil
}

// NewFromConfig is the production entry point: it loads cfg.Store's
// backend, cfg.Game's curve, (re)configures the package-level logger from
// cfg.Log, and returns a Player whose poll interval and backoff ceiling
// come from cfg.Client instead of New's hardcoded defaults. A nil cfg
// loads one via config.Load(nil).
func NewFromConfig(cfg *config.Config, playerIdx int, gameID uint64, kp *keys.KeyPair, p prover.Prover, ab AssignmentBuilder) (*Player, *store.Store, error) {
	if cfg == nil {
		loaded, err := config.Load(nil)
		if err != nil {
			return nil, nil, fmt.Errorf("client: load config: %w", err)
		}
		cfg = loaded
	}

	log.Init(cfg.Log.Level, cfg.Log.Output)

	curve, err := CurveFromConfig(cfg.Game.Curve)
	if err != nil {
		return nil, nil, err
	}

	database, err := DatabaseFromConfig(cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	s := store.New(database, curve)

	player := New(playerIdx, gameID, kp, curve, s, p, ab)
	if cfg.Client.PollInterval > 0 {
		player.PollInterval = cfg.Client.PollInterval
	}
	if cfg.Client.PollMaxBackoff > 0 {
		player.MaxBackoff = cfg.Client.PollMaxBackoff
	}
	return player, s, nil
}
