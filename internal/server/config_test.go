package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tambola.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
	assert.Equal(t, "info", cfg.Server.LogLevel)

	points := cfg.PrizePoints()
	assert.Equal(t, 50, points.EarlyFive)
	assert.Equal(t, 200, points.FullHouse)
	assert.Equal(t, 2, points.FullHouseMaxWinners)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  address = "0.0.0.0"
  port    = 9000
  mongo_uri = "mongodb://localhost:27017"
}

prizes {
  early_five = 75
  full_house = 500
  full_house_max_winners = 3
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddress())
	assert.Equal(t, "mongodb://localhost:27017", cfg.Server.MongoURI)
	assert.Equal(t, "tambola", cfg.Server.MongoDatabase)

	points := cfg.PrizePoints()
	assert.Equal(t, 75, points.EarlyFive)
	assert.Equal(t, 500, points.FullHouse)
	assert.Equal(t, 3, points.FullHouseMaxWinners)
	// Unset values keep the traditional defaults
	assert.Equal(t, 100, points.FirstLine)
	assert.Equal(t, 50, points.Corners)
}

func TestLoadConfigBadSyntax(t *testing.T) {
	path := writeConfig(t, `server { port = `)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}
