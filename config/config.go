// Package config loads this module's runtime configuration: which curve
// and deck size a deployment runs, how its store is backed, and the
// client orchestrator's polling/backoff policy. Unlike the teacher's
// cmd-level config, this package binds no CLI flags — it's consumed as a
// library, so only environment variables and programmatic defaults apply.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "MPOKER"

const (
	defaultCurve        = "bjj"
	defaultNumPlayers   = 4
	defaultNumCards     = 52
	defaultStoreBackend = "inmem"
	defaultStorePath    = ".mentalpoker/store"
	defaultPollInterval = 5 * time.Second
	defaultPollMaxBack  = 60 * time.Second
	defaultLogLevel     = "info"
	defaultLogOutput    = "stdout"
)

// Config is this module's complete runtime configuration.
type Config struct {
	Game   GameConfig   `mapstructure:"game"`
	Store  StoreConfig  `mapstructure:"store"`
	Client ClientConfig `mapstructure:"client"`
	Log    LogConfig    `mapstructure:"log"`
}

// GameConfig fixes the curve and deck shape new games are created with.
type GameConfig struct {
	Curve      string `mapstructure:"curve"`      // only "bjj" is implemented
	NumPlayers int    `mapstructure:"numPlayers"` // default table size
	NumCards   int    `mapstructure:"numCards"`   // default deck size
}

// StoreConfig selects and configures the store/ backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "inmem" or "pebble"
	Path    string `mapstructure:"path"`    // pebble data directory; ignored by inmem
}

// ClientConfig tunes the per-player orchestrator's polling loop.
type ClientConfig struct {
	PollInterval   time.Duration `mapstructure:"pollInterval"`   // steady-state poll cadence
	PollMaxBackoff time.Duration `mapstructure:"pollMaxBackoff"` // backoff ceiling after consecutive poll errors
	ArtifactsDir   string        `mapstructure:"artifactsDir"`   // proving/verifying key directory; not read by this module
}

// LogConfig configures zerolog output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"` // "stdout", "stderr", or a filepath
}

// Load reads configuration from environment variables prefixed MPOKER_
// (e.g. MPOKER_GAME_NUMPLAYERS, MPOKER_LOG_LEVEL), falling back to the
// defaults below for anything unset. v is optional: pass an existing
// *viper.Viper to compose with configuration already loaded from a file;
// nil gets a fresh one.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetDefault("game.curve", defaultCurve)
	v.SetDefault("game.numPlayers", defaultNumPlayers)
	v.SetDefault("game.numCards", defaultNumCards)
	v.SetDefault("store.backend", defaultStoreBackend)
	v.SetDefault("store.path", defaultStorePath)
	v.SetDefault("client.pollInterval", defaultPollInterval)
	v.SetDefault("client.pollMaxBackoff", defaultPollMaxBack)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
