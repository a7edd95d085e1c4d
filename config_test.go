package blogclient_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogclient"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BLOG_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))

	cfg, err := blogclient.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, "/auth/refresh", cfg.RefreshPath)
	assert.Equal(t, blogclient.BackendFile, cfg.SessionBackend)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.BreakerFailures)
	assert.Zero(t, cfg.RateLimit)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("BLOG_API_URL", "https://blog.example.com/api")
	t.Setenv("BLOG_SESSION_BACKEND", "memory")
	t.Setenv("BLOG_LANGUAGE", "pt_BR")
	t.Setenv("BLOG_TIMEOUT", "3s")
	t.Setenv("BLOG_RATE_LIMIT", "2.5")

	cfg, err := blogclient.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://blog.example.com/api", cfg.APIURL)
	assert.Equal(t, blogclient.BackendMemory, cfg.SessionBackend)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.InDelta(t, 2.5, cfg.RateLimit, 0.001)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() blogclient.Config {
		return blogclient.Config{
			APIURL:         "http://localhost:8080/api",
			SessionBackend: blogclient.BackendMemory,
			Language:       "en",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*blogclient.Config)
		wantErr error
	}{
		{name: "valid"},
		{name: "relative url", mutate: func(c *blogclient.Config) { c.APIURL = "/api" }, wantErr: blogclient.ErrInvalidConfig},
		{name: "bad scheme", mutate: func(c *blogclient.Config) { c.APIURL = "ftp://host/api" }, wantErr: blogclient.ErrInvalidConfig},
		{name: "negative timeout", mutate: func(c *blogclient.Config) { c.Timeout = -time.Second }, wantErr: blogclient.ErrInvalidConfig},
		{name: "rate limit without burst", mutate: func(c *blogclient.Config) { c.RateLimit = 2; c.RateBurst = 0 }, wantErr: blogclient.ErrInvalidConfig},
		{name: "rate limit with burst", mutate: func(c *blogclient.Config) { c.RateLimit = 2; c.RateBurst = 1 }},
		{name: "bad language", mutate: func(c *blogclient.Config) { c.Language = "??" }, wantErr: blogclient.ErrInvalidConfig},
		{name: "unknown backend", mutate: func(c *blogclient.Config) { c.SessionBackend = "etcd" }, wantErr: blogclient.ErrUnknownBackend},
		{name: "redis without url", mutate: func(c *blogclient.Config) { c.SessionBackend = blogclient.BackendRedis }, wantErr: blogclient.ErrMissingRedisURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("file backend gets a default path", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.SessionBackend = blogclient.BackendSQLite
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "session.db", filepath.Base(cfg.SessionFile))
	})
}
