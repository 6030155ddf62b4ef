// Package config loads moviebot settings from moviebot.yaml, MOVIEBOT_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AppName   = "moviebot"
	EnvPrefix = "MOVIEBOT"
)

type Config struct {
	Oracle  OracleConfig  `mapstructure:"oracle"`
	Movies  MoviesConfig  `mapstructure:"movies"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	History HistoryConfig `mapstructure:"history"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

type OracleConfig struct {
	Model     string        `mapstructure:"model"`
	MaxTokens int64         `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// BaseURL overrides the Anthropic endpoint; the API key always comes from ANTHROPIC_API_KEY.
	BaseURL string `mapstructure:"base_url"`
}

type MoviesConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LookupConfig struct {
	// Delay paces the final render of a successful lookup.
	Delay time.Duration `mapstructure:"delay"`
}

// History backends.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type HistoryConfig struct {
	Backend string `mapstructure:"backend"`
	// Path is a directory for the file backend, a database file for sqlite.
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key so env overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("oracle.model", "claude-3-7-sonnet-latest")
	v.SetDefault("oracle.max_tokens", 1024)
	v.SetDefault("oracle.timeout", "60s")
	v.SetDefault("oracle.base_url", "")

	v.SetDefault("movies.base_url", "http://localhost:8000")
	v.SetDefault("movies.api_key", "")
	v.SetDefault("movies.timeout", "15s")

	v.SetDefault("lookup.delay", "500ms")

	v.SetDefault("history.backend", BackendNone)
	v.SetDefault("history.path", filepath.Join(".moviebot", "history"))

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration into v. An explicit path must exist; without one
// moviebot.yaml is looked up in the working directory and
// $HOME/.config/moviebot, and a missing file is not an error. A nil v gets
// a fresh instance.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".config", AppName))
	}

	SetDefaults(v)

	// MOVIEBOT_MOVIES_API_KEY overrides movies.api_key.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.History.Backend {
	case BackendNone, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown history backend %q", c.History.Backend)
	}
	if c.History.Backend != BackendNone && c.History.Path == "" {
		return errors.New("config: history.path is required for a durable backend")
	}
	if c.Movies.BaseURL == "" {
		return errors.New("config: movies.base_url is required")
	}
	if c.Lookup.Delay < 0 {
		return errors.New("config: lookup.delay must not be negative")
	}
	return nil
}
