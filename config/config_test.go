package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-resources/config"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Moderation.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.Moderation.ScrapeTimeout)
	assert.Equal(t, 5*time.Second, cfg.Moderation.RequestTimeout)
	assert.Equal(t, 3, cfg.Moderation.MaxRedirects)
	assert.Equal(t, 1000, cfg.Moderation.MaxURLLength)
	assert.Equal(t, 3000, cfg.Moderation.MaxContentLength)
	assert.InDelta(t, 0.7, cfg.Moderation.MinConfidence, 1e-9)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: "9000"
moderation:
  workers: 2
  cache_ttl: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, ":9100", cfg.GetServerAddress())
	assert.Equal(t, 2, cfg.Moderation.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Moderation.CacheTTL)
}

func TestLoad_YouTubeKeyFallsBackToGoogleKey(t *testing.T) {
	t.Setenv("GOOGLE_SAFE_API_KEY", "g-key")
	t.Setenv("YOUTUBE_API_KEY", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.APIs.YouTubeAPIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"confidence above one", func(c *config.Config) { c.Moderation.MinConfidence = 1.5 }},
		{"no workers", func(c *config.Config) { c.Moderation.Workers = 0 }},
		{"no queue", func(c *config.Config) { c.Moderation.QueueSize = 0 }},
		{"zero outbound rate", func(c *config.Config) { c.Moderation.OutboundRPS = 0 }},
		{"negative outbound rate", func(c *config.Config) { c.Moderation.OutboundRPS = -1 }},
		{"unknown cache backend", func(c *config.Config) { c.Moderation.CacheBackend = "memcached" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
