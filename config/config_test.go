package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultQueryTimeout, cfg.QueryTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SABERPRO_DB", "/var/data/results.db")
	t.Setenv("PORT", "9000")
	t.Setenv("SABERPRO_CHUNK_SIZE", "1000")
	t.Setenv("SABERPRO_CACHE_SIZE", "64")
	t.Setenv("SABERPRO_MAX_ROWS", "1000000")
	t.Setenv("SABERPRO_QUERY_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/data/results.db", cfg.DBPath)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, 1000000, cfg.MaxRows)
	assert.Equal(t, 45*time.Second, cfg.QueryTimeout)
}

func TestLoadRejectsInvalidCacheSize(t *testing.T) {
	t.Setenv("SABERPRO_CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidMaxRows(t *testing.T) {
	t.Setenv("SABERPRO_MAX_ROWS", "lots")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNegativeChunkSize(t *testing.T) {
	t.Setenv("SABERPRO_CHUNK_SIZE", "-5")
	_, err := Load()
	require.Error(t, err)
}
