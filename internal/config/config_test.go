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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8089", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "starter", cfg.Catalog.Source)
	assert.Equal(t, 40, cfg.Game.StartingLife)
	assert.Equal(t, 7, cfg.Game.StartingHandSize)
	assert.Equal(t, 7, cfg.Game.MaxHandSize)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9000"
logging:
  level: debug
  format: console
game:
  starting_life: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Game.StartingLife)
	// Unset keys keep their defaults.
	assert.Equal(t, "starter", cfg.Catalog.Source)
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "pg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  source: postgres\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err, "postgres source without a DSN must fail")

	path = filepath.Join(dir, "life.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  starting_life: 0\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err, "non-positive starting life must fail")
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
