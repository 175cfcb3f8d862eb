package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce())
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("api:\n  base_url: https://sigpesq.ufx.br\n  timeout: 5s\nui:\n  debounce_ms: 150\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://sigpesq.ufx.br", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("SIGPESQ_API_URL wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file\n"), 0644))
		t.Setenv("SIGPESQ_API_URL", "http://env:9000")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://env:9000", cfg.API.BaseURL)
	})

	t.Run("SIGPESQ_DEBUG enables debug logging", func(t *testing.T) {
		t.Setenv("SIGPESQ_DEBUG", "1")

		cfg := DefaultConfig()
		cfg.Logging.Level = ""
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.DebugMode)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://roundtrip:8000"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://roundtrip:8000", loaded.API.BaseURL)
}

func TestBadTimeoutFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "soon"
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
}
