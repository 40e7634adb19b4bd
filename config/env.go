package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvSeed       = "DEALERSIM_SEED"
	EnvWorkers    = "DEALERSIM_WORKERS"
	EnvJournalDir = "DEALERSIM_JOURNAL_DIR"
	EnvDBPath     = "DEALERSIM_DB_PATH"
)

// ApplyEnv loads the given dotenv files (or ./.env if none are given and it
// exists), then applies DEALERSIM_* overrides. Variables already set in the
// process environment win over dotenv files.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		if n < 0 {
			return fmt.Errorf("%s must not be negative", EnvWorkers)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvJournalDir); v != "" {
		c.Journal.Dir = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Journal.DBPath = v
	}
	return nil
}
