// Package config loads runtime settings from flags, the environment, an
// optional .env file and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/simonvc/swipeledger/internal/store"
	"github.com/spf13/viper"
)

const EnvPrefix = "SWIPELEDGER"

const (
	DefaultServer = "http://localhost:8899"
	DefaultAddr   = ":8899"
)

type Config struct {
	// Server is the API base URL used by the CLI and TUI.
	Server string `mapstructure:"server"`
	Addr   string `mapstructure:"addr"`
	Store  string `mapstructure:"store"`
	DSN    string `mapstructure:"dsn"`
	// Seed is a YAML seed file; empty means the built-in chart.
	Seed string    `mapstructure:"seed"`
	Log  LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment binding in place.
// SWIPELEDGER_LOG_LEVEL maps to log.level.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("server", DefaultServer)
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("store", store.DriverMemory)
	v.SetDefault("dsn", store.DefaultDSN)
	v.SetDefault("seed", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present) and configFile (if set) into v and decodes it.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case store.DriverMemory, store.DriverSQLite:
	default:
		return fmt.Errorf("store must be %s or %s, got %q", store.DriverMemory, store.DriverSQLite, c.Store)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
