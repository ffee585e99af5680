// Package config resolves runtime configuration from environment variables,
// with a .env file autoloaded when present.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirror the original deployment: a SQLite file under data/processed
// and the dashboard on port 8051.
const (
	DefaultDBPath       = "data/processed/saber_pro.db"
	DefaultPort         = 8051
	DefaultChunkSize    = 50000
	DefaultCacheSize    = 32
	DefaultMaxRows      = 500000
	DefaultQueryTimeout = 30 * time.Second
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	DBPath       string
	Port         int
	ChunkSize    int
	CacheSize    int
	MaxRows      int
	QueryTimeout time.Duration
}

// Load builds a Config from the environment. A .env file in the working
// directory is applied first; missing values fall back to defaults.
func Load() (Config, error) {
	// Ignore a missing .env; it is optional outside development.
	_ = godotenv.Load()

	cfg := Config{
		DBPath:       DefaultDBPath,
		Port:         DefaultPort,
		ChunkSize:    DefaultChunkSize,
		CacheSize:    DefaultCacheSize,
		MaxRows:      DefaultMaxRows,
		QueryTimeout: DefaultQueryTimeout,
	}

	if v := os.Getenv("SABERPRO_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if v := os.Getenv("SABERPRO_CHUNK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errors.New("invalid SABERPRO_CHUNK_SIZE env variable")
		}
		cfg.ChunkSize = n
	}
	if v := os.Getenv("SABERPRO_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errors.New("invalid SABERPRO_CACHE_SIZE env variable")
		}
		cfg.CacheSize = n
	}
	if v := os.Getenv("SABERPRO_MAX_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errors.New("invalid SABERPRO_MAX_ROWS env variable")
		}
		cfg.MaxRows = n
	}
	if v := os.Getenv("SABERPRO_QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid SABERPRO_QUERY_TIMEOUT env variable")
		}
		cfg.QueryTimeout = d
	}

	return cfg, nil
}
