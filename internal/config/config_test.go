package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file
		path := writeConfig(t, `
log-level: debug
http-port: "8081"
storage: memory
redis:
  host: cache
  port: "6380"
  session-ttl: 30m
mastermind:
  max-attempts: 10
`)

		// When: loading it
		conf, err := Load(path)

		// Then: every key is picked up
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8081", conf.HTTPPort)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 30*time.Minute, conf.Redis.SessionTTL)
		assert.Equal(t, 10, conf.Mastermind.MaxAttempts)
	})

	t.Run("Missing file falls back to defaults", func(t *testing.T) {
		conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 24*time.Hour, conf.Redis.SessionTTL)
		assert.Equal(t, 12, conf.Mastermind.MaxAttempts)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "storage: redis\n")
		t.Setenv("STORAGE", "memory")
		t.Setenv("MASTERMIND_MAX_ATTEMPTS", "6")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, 6, conf.Mastermind.MaxAttempts)
	})

	t.Run("Rejects an unknown storage backend", func(t *testing.T) {
		path := writeConfig(t, "storage: sqlite\n")

		_, err := Load(path)

		assert.ErrorIs(t, err, ErrUnknownStorage)
	})

	t.Run("MustLoad panics on a bad config", func(t *testing.T) {
		path := writeConfig(t, "mastermind:\n  max-attempts: -1\n")

		assert.Panics(t, func() { MustLoad(path) })
	})
}
