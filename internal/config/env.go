package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ericogr/vault-battles/internal/constants"
)

// Env holds process settings read from the environment.
type Env struct {
	ConfigPath     string        `env:"VAULT_CONFIG"          envDefault:"config.json"`
	DatabasePath   string        `env:"VAULT_DB"              envDefault:"vault-battles.db"`
	Store          string        `env:"VAULT_STORE"           envDefault:"sqlite"`
	BoltPath       string        `env:"VAULT_BOLT_PATH"       envDefault:"sessions.bolt"`
	RetryAttempts  uint          `env:"VAULT_RETRY_ATTEMPTS"  envDefault:"10"`
	StatTimeout    time.Duration `env:"VAULT_STAT_TIMEOUT"    envDefault:"5s"`
	ReaperInterval time.Duration `env:"VAULT_REAPER_INTERVAL" envDefault:"1m"`

	SessionSecret      string `env:"SESSION_SECRET"`
	SecureCookie       bool   `env:"SESSION_SECURE_COOKIE" envDefault:"false"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
}

// ParseEnv loads Env from the process environment and checks the store
// backend name and reaper interval.
func ParseEnv() (Env, error) {
	cfg, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Store {
	case constants.StoreSQLite, constants.StoreBolt:
	default:
		return Env{}, fmt.Errorf("parse env: %s must be %q or %q, got %q",
			constants.EnvSessionStore, constants.StoreSQLite, constants.StoreBolt, cfg.Store)
	}
	if cfg.ReaperInterval <= 0 {
		return Env{}, fmt.Errorf("parse env: %s must be positive", constants.EnvReaperInterval)
	}
	return cfg, nil
}
