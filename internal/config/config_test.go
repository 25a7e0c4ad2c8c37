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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  url: postgres://localhost/tuntun
security:
  lockout: 2m
  max_attempts: 3
dues:
  grace_days: 45
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/tuntun", cfg.Database.DSN)
	assert.Equal(t, 2*time.Minute, cfg.Security.Lockout)
	assert.Equal(t, 3, cfg.Security.MaxAttempts)
	assert.Equal(t, 45, cfg.Dues.GraceDays)
	// defaults
	assert.Equal(t, "./files", cfg.Files.RootDir)
	assert.Equal(t, 12*time.Hour, cfg.Security.TokenTTL)
	assert.Equal(t, "0 9 * * *", cfg.Dues.Schedule)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Security.MaxAttempts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("TUNTUN_PORT", "7070")
	t.Setenv("TUNTUN_DATABASE_URL", "postgres://env/db")
	t.Setenv("TUNTUN_PIN_LOCKOUT", "30s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, 30*time.Second, cfg.Security.Lockout)
}

func TestLoadConfigRejectsBrokenYAML(t *testing.T) {
	path := writeConfig(t, "server: [")
	_, err := LoadConfig(path)
	require.Error(t, err)
}
