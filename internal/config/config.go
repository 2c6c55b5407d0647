// Package config loads process settings from environment variables.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/ericfisherdev/dbsession/internal/adapter/driven/secret"
	"github.com/ericfisherdev/dbsession/internal/adapter/driven/sqldb"
)

// Config holds the process settings. Database credentials are not here; they
// live in the file at ConfigPath.
type Config struct {
	ConfigPath    string `env:"DBSESSION_CONFIG_PATH" envDefault:"dbconfig.json"`
	Driver        string `env:"DBSESSION_DRIVER" envDefault:"mysql"`
	CipherKey     string `env:"DBSESSION_CIPHER_KEY"`
	SealScheme    string `env:"DBSESSION_SEAL_SCHEME" envDefault:"legacy"`
	MigrationsDir string `env:"DBSESSION_MIGRATIONS_DIR"`
	ListenAddr    string `env:"DBSESSION_LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	LogLevel      string `env:"DBSESSION_LOG_LEVEL" envDefault:"info"`
}

// Load reads the environment and returns a validated Config. An unset
// DBSESSION_CIPHER_KEY falls back to the legacy key so existing config files
// keep decrypting.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.CipherKey == "" {
		cfg.CipherKey = secret.LegacyKeyString
	}

	if _, err := sqldb.ParseDriver(cfg.Driver); err != nil {
		return nil, fmt.Errorf("DBSESSION_DRIVER: %w", err)
	}
	if _, err := secret.ParseScheme(cfg.SealScheme); err != nil {
		return nil, fmt.Errorf("DBSESSION_SEAL_SCHEME: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("DBSESSION_LOG_LEVEL: %w", err)
	}

	return &cfg, nil
}

// DBDriver returns the validated driver.
func (c *Config) DBDriver() sqldb.Driver {
	return sqldb.Driver(c.Driver)
}

// Scheme returns the validated seal scheme.
func (c *Config) Scheme() secret.Scheme {
	return secret.Scheme(c.SealScheme)
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Cipher builds the cipher used for the credential in the config file.
func (c *Config) Cipher() *secret.Versioned {
	return secret.NewVersioned(secret.NewStaticKey(c.CipherKey), c.Scheme())
}
