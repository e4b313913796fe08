package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

// Config holds the environment-driven settings of the planning tools.
// Exactly one snapshot backend is picked at composition time: Redis when
// REDIS_ADDR is set, Postgres when DATABASE_URL is set, the local SQLite
// file otherwise.
type Config struct {
	SolveAPIBaseURL string `env:"SOLVE_API_BASE_URL" envDefault:"http://localhost:8000/api"`

	SnapshotDBPath string `env:"SNAPSHOT_DB_PATH" envDefault:"data/plans.db"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:""`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:""`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	return c, nil
}
