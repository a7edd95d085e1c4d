package blogclient

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/dmitrymomot/blogclient/pkg/i18n"
	"github.com/dmitrymomot/blogclient/pkg/logger"
)

// Session backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the client configuration, read from BLOG_* environment variables.
type Config struct {
	APIURL         string `env:"BLOG_API_URL" default:"http://localhost:8080/api"`
	RefreshPath    string `env:"BLOG_REFRESH_PATH" default:"/auth/refresh"`
	SessionBackend string `env:"BLOG_SESSION_BACKEND" default:"file"`
	// SessionFile is the JSON file or SQLite database of the file and sqlite
	// backends. Defaults to a file under the user config directory.
	SessionFile   string `env:"BLOG_SESSION_FILE"`
	SessionPrefix string `env:"BLOG_SESSION_PREFIX" default:"blogclient"`
	RedisURL      string `env:"BLOG_REDIS_URL"`
	Language      string `env:"BLOG_LANGUAGE" default:"en"`

	LogLevel          string `env:"BLOG_LOG_LEVEL" default:"info"`
	LogFormat         string `env:"BLOG_LOG_FORMAT" default:"text"`
	SentryDSN         string `env:"BLOG_SENTRY_DSN"`
	SentryEnvironment string `env:"BLOG_SENTRY_ENVIRONMENT" default:"production"`

	Timeout        time.Duration `env:"BLOG_TIMEOUT" default:"10s"`
	RefreshTimeout time.Duration `env:"BLOG_REFRESH_TIMEOUT" default:"10s"`

	// RateLimit caps outgoing requests per second. Zero disables it.
	RateLimit float64 `env:"BLOG_RATE_LIMIT" default:"0"`
	RateBurst int     `env:"BLOG_RATE_BURST" default:"5"`

	// BreakerFailures consecutive network or 5xx failures open the circuit
	// for BreakerCooldown. Zero disables the breaker.
	BreakerFailures int           `env:"BLOG_BREAKER_FAILURES" default:"5"`
	BreakerCooldown time.Duration `env:"BLOG_BREAKER_COOLDOWN" default:"30s"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("blogclient: load .env: %w", err)
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return Config{}, fmt.Errorf("blogclient: load environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration and fills derived defaults.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: BLOG_API_URL must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.APIURL)
	}
	if c.Timeout < 0 || c.RefreshTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	if c.RateLimit < 0 || c.BreakerFailures < 0 {
		return fmt.Errorf("%w: rate limit and breaker failures must not be negative", ErrInvalidConfig)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("%w: BLOG_RATE_BURST must be positive when BLOG_RATE_LIMIT is set", ErrInvalidConfig)
	}
	if _, err := i18n.NormalizeLanguage(c.Language); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return ErrMissingRedisURL
		}
	case BackendFile, BackendSQLite:
		if c.SessionFile == "" {
			path, err := defaultSessionFile(c.SessionBackend)
			if err != nil {
				return err
			}
			c.SessionFile = path
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.SessionBackend)
	}
	return nil
}

// LoggerConfig returns the logger settings.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:             c.LogLevel,
		Format:            c.LogFormat,
		SentryDSN:         c.SentryDSN,
		SentryEnvironment: c.SentryEnvironment,
	}
}

func defaultSessionFile(backend string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("blogclient: locate config dir: %w", err)
	}
	name := "session.json"
	if backend == BackendSQLite {
		name = "session.db"
	}
	return filepath.Join(dir, "blogclient", name), nil
}
