package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "TABLE_PREFIX", "STORAGE", "DEBUG", "TRASH_RETENTION", "TX_MAX_RETRIES"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, 30*24*time.Hour, cfg.TrashRetention)
	assert.Equal(t, 3, cfg.TxMaxRetries)
	assert.True(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("DEBUG", "")
	t.Setenv("TRASH_RETENTION", "48h")
	t.Setenv("TX_MAX_RETRIES", "not-a-number")
	cfg := Load()

	assert.Equal(t, "prod_", cfg.TablePrefix)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 48*time.Hour, cfg.TrashRetention)
	assert.Equal(t, 3, cfg.TxMaxRetries)
}

func TestTablePrefixOverride(t *testing.T) {
	t.Setenv("TABLE_PREFIX", "custom_")
	assert.Equal(t, "custom_", getTablePrefix("prod"))
}

func TestCleanupOldLogsKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"docspace-2024-01-01T00-00-00.log",
		"docspace-2024-01-02T00-00-00.log",
		"docspace-2024-01-03T00-00-00.log",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	require.NoError(t, cleanupOldLogs(dir, 2))

	left, err := filepath.Glob(filepath.Join(dir, "docspace-*.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, names[1]), filepath.Join(dir, names[2])}, left)
}
