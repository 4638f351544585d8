package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/marquee/internal/config"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := loadConfig(filepath.Join(t.TempDir(), "config.toml"))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("valid file loads", func(t *testing.T) {
		path := writeConfigFile(t, `
[database]
dsn = "postgres://u:p@db:5432/marquee"
`)
		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@db:5432/marquee", cfg.Database.DSN)
	})

	// A file that exists but does not parse must surface its error,
	// never run the server against the default DSN.
	t.Run("malformed file is an error", func(t *testing.T) {
		path := writeConfigFile(t, "[server\nport=")
		_, err := loadConfig(path)
		assert.Error(t, err)
	})

	t.Run("invalid value is an error", func(t *testing.T) {
		path := writeConfigFile(t, `
[server]
port = 70000
`)
		_, err := loadConfig(path)
		assert.Error(t, err)
	})
}

func TestNewPoolConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Database.MaxConns = 25
	cfg.Database.ConnLifetime = "30m"

	poolCfg, err := newPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(25), poolCfg.MaxConns)
	assert.Equal(t, 30*time.Minute, poolCfg.MaxConnLifetime)
}

func TestNewPoolConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{
			name:   "bad dsn",
			mutate: func(c *config.Config) { c.Database.DSN = "://nope" },
		},
		{
			name:   "bad conn lifetime",
			mutate: func(c *config.Config) { c.Database.ConnLifetime = "soon" },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := config.Default()
			test.mutate(cfg)
			_, err := newPoolConfig(cfg)
			assert.Error(t, err)
		})
	}
}
