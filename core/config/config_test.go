package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "exports", cfg.Storage.Bucket)
	assert.Equal(t, 200, cfg.Reconcile.MaxDiffOps)
	assert.Equal(t, 20, cfg.Reconcile.ListFetchLimit)
	assert.Equal(t, 30*time.Second, cfg.Reconcile.CacheTTL())
	assert.Equal(t, 64, cfg.Dispatch.QueueSize)
	assert.False(t, cfg.Storage.UseSSL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("RECONCILE_MAX_DIFF_OPS", "5")
	t.Setenv("DISPATCH_QUEUE_SIZE", "8")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Reconcile.MaxDiffOps)
	assert.Equal(t, 8, cfg.Dispatch.QueueSize)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_DRIVER=sqlite\nDATABASE_NAME=reminders.db\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_DRIVER")
		os.Unsetenv("DATABASE_NAME")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "reminders.db", cfg.Database.Name)
}
