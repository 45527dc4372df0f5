package main

import (
	"os"
	"path/filepath"
	"testing"

	"trybud/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  port: "9000"
database:
  driver: sqlite
  dsn: file:trybud.db
session:
  capacity: 50
auth:
  debugMode: true
`), 0o600))
	t.Setenv("APP_LOGLEVEL", "debug")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, repository.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:trybud.db", cfg.Database.GetDatabaseURL())
	assert.Equal(t, 50, cfg.Session.Capacity)
	assert.True(t, cfg.Auth.DebugMode)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
