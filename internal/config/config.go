package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Game    GameConfig    `mapstructure:"game"`
}

// ServerConfig configures the websocket boundary.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CatalogConfig selects the card-definition source.
type CatalogConfig struct {
	// Source is "starter" (embedded set) or "postgres".
	Source string `mapstructure:"source"`
	// DSN is the Postgres connection string when Source is "postgres".
	DSN string `mapstructure:"dsn"`
}

// GameConfig holds Commander game defaults.
type GameConfig struct {
	StartingLife     int `mapstructure:"starting_life"`
	StartingHandSize int `mapstructure:"starting_hand_size"`
	MaxHandSize      int `mapstructure:"max_hand_size"`
}

// Load reads configuration from the given YAML file, applying defaults and
// COMMANDER_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8089")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("catalog.source", "starter")
	v.SetDefault("game.starting_life", 40)
	v.SetDefault("game.starting_hand_size", 7)
	v.SetDefault("game.max_hand_size", 7)

	v.SetEnvPrefix("COMMANDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Catalog.Source == "postgres" && cfg.Catalog.DSN == "" {
		return nil, fmt.Errorf("catalog.dsn is required when catalog.source is postgres")
	}
	if cfg.Game.StartingLife <= 0 {
		return nil, fmt.Errorf("game.starting_life must be positive")
	}

	return &cfg, nil
}
