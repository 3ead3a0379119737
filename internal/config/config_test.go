package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)

	assert.Equal(t, DefaultDatabaseURL, cfg.Database.URL)
	assert.Equal(t, DefaultDatabaseURL, cfg.Database.Path)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.AcquireTimeout)
	assert.Equal(t, "warn", cfg.Database.LogLevel)

	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)

	assert.False(t, cfg.Sweep.Enabled)
	assert.Equal(t, DefaultSweepSchedule, cfg.Sweep.Schedule)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "sqlite:///var/lib/lending.db")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "8")
	t.Setenv("DATABASE_ACQUIRE_TIMEOUT", "250ms")
	t.Setenv("SWEEP_ENABLED", "true")
	t.Setenv("SWEEP_SCHEDULE", "*/5 * * * *")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "sqlite:///var/lib/lending.db", cfg.Database.URL)
	assert.Equal(t, "/var/lib/lending.db", cfg.Database.Path)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, "*/5 * * * *", cfg.Sweep.Schedule)

	opts := cfg.Database.Options()
	assert.Equal(t, 8, opts.MaxOpenConns)
	assert.Equal(t, 250*time.Millisecond, opts.AcquireTimeout)
}

func TestLoadEnvFiles(t *testing.T) {
	const key = "LENDING_TEST_ENV_FILE_VALUE"
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv(key) })

	t.Run("missing files are skipped", func(t *testing.T) {
		assert.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env")))
	})

	t.Run("file values are loaded", func(t *testing.T) {
		require.NoError(t, LoadEnvFiles(path))
		assert.Equal(t, "from-file", os.Getenv(key))
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		t.Setenv(key, "from-env")
		require.NoError(t, LoadEnvFiles(path))
		assert.Equal(t, "from-env", os.Getenv(key))
	})
}
