package main

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
	path := filepath.Join(t.TempDir(), "runways.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads every field", func(t *testing.T) {
		path := writeConfig(t, `
data_dir: /srv/pilot
preferences: sqlite
probe_address: example.com:443
probe_interval: 10s
probe_retries: 2
verbose: true
`)
		cfg, err := loadConfig(path, true)
		require.NoError(t, err)
		assert.Equal(t, "/srv/pilot", cfg.DataDir)
		assert.Equal(t, "sqlite", cfg.Preferences)
		assert.Equal(t, "example.com:443", cfg.ProbeAddress)
		assert.Equal(t, 10*time.Second, cfg.interval())
		assert.Equal(t, 2, cfg.ProbeRetries)
		assert.True(t, cfg.Verbose)
	})

	t.Run("missing optional file is empty", func(t *testing.T) {
		cfg, err := loadConfig(filepath.Join(t.TempDir(), "none.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, fileConfig{}, cfg)
	})

	t.Run("missing required file fails", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "none.yaml"), true)
		assert.Error(t, err)
	})

	invalid := []struct {
		name string
		body string
	}{
		{"unknown backend", "preferences: cloud\n"},
		{"address without port", "probe_address: example.com\n"},
		{"bad interval", "probe_interval: soon\n"},
		{"negative retries", "probe_retries: -1\n"},
		{"not yaml", "data_dir: [\n"},
	}
	for _, tt := range invalid {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body), true)
			assert.Error(t, err)
		})
	}
}
