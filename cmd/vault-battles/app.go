package main

import (
	"github.com/ericogr/vault-battles/internal/config"
	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/logging"
	"github.com/ericogr/vault-battles/internal/storage"
	"github.com/ericogr/vault-battles/internal/storage/bolt"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid vault configuration", err, logging.Fields{
			"config_path": path,
			"hint":        "create a config.json with a 'move_list' array of moves (id,name,category,target,cost,cooldown,damage,...) and optional keys: server.address, session_idle_ttl",
		})
	}
	return cfg
}

func parseEnvOrExit() config.Env {
	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	return env
}

// stores are the persistence backends selected by the environment.
type stores struct {
	repo     storage.Repository
	sessions storage.SessionStore
	close    func()
}

// openStoresOrExit opens sqlite for profiles and masteries, and the
// configured backend for battle sessions.
func openStoresOrExit(env config.Env) stores {
	db, err := storage.OpenAndMigrate(env.DatabasePath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	policy := storage.DefaultRetryPolicy()
	if env.RetryAttempts > 0 {
		policy.MaxAttempts = env.RetryAttempts
	}
	repo := storage.NewSQLiteRepository(db, policy)
	sqlDB, err := db.DB()
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	out := stores{repo: repo, sessions: repo, close: func() { _ = sqlDB.Close() }}

	if env.Store == constants.StoreBolt {
		bs, err := bolt.Open(env.BoltPath)
		if err != nil {
			logging.Fatal("Failed to open bolt session store", err, logging.Fields{"path": env.BoltPath})
		}
		out.sessions = bs
		out.close = func() {
			_ = bs.Close()
			_ = sqlDB.Close()
		}
	}
	logging.Info("session store ready", logging.Fields{constants.LogFieldStore: env.Store})
	return out
}
