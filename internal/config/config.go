package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	DatabaseURL    string
	AuthSecret     string
	AuthURL        string
	TrustedOrigins []string
	CORSOrigins    []string

	LogLevel string
	LogJSON  bool

	// Redis rate limiter for auth endpoints; empty addr disables it.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Maximum request body size in bytes.
	MaxBodyBytes int64

	SessionTTL time.Duration
}

// Load reads configuration from the environment (.env is loaded when
// present) and validates it. Startup must fail fast on a bad config, so
// callers are expected to treat any error as fatal.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:        "8000",
		LogLevel:       "info",
		AuthRateLimit:  5,
		AuthRateWindow: time.Minute,
		MaxBodyBytes:   50 * 1024,
		SessionTTL:     7 * 24 * time.Hour,
	}

	if v := os.Getenv("APP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 1 || n > 65535 {
			return nil, fmt.Errorf("APP_PORT must be a valid port, got %q", v)
		}
		cfg.AppPort = v
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.AuthSecret = os.Getenv("AUTH_SECRET")
	if len(cfg.AuthSecret) < 32 {
		return nil, fmt.Errorf("AUTH_SECRET must be at least 32 characters")
	}

	cfg.AuthURL = os.Getenv("AUTH_URL")
	if cfg.AuthURL == "" {
		return nil, fmt.Errorf("AUTH_URL is not set")
	}
	if _, err := url.ParseRequestURI(cfg.AuthURL); err != nil {
		return nil, fmt.Errorf("AUTH_URL is not a valid URL: %w", err)
	}

	var err error
	cfg.TrustedOrigins, err = parseOriginList(os.Getenv("AUTH_TRUSTED_ORIGINS"), true)
	if err != nil {
		return nil, fmt.Errorf("AUTH_TRUSTED_ORIGINS: %w", err)
	}

	cfg.CORSOrigins, err = parseOriginList(os.Getenv("CORS_ALLOW_ORIGINS"), false)
	if err != nil {
		return nil, fmt.Errorf("CORS_ALLOW_ORIGINS: %w", err)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogJSON = os.Getenv("LOG_JSON") == "true"

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}

	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AuthRateLimit = n
		}
	}
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AuthRateWindow = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}

	return cfg, nil
}

// AllowedOrigins is the CORS allowlist: the configured CORS origins plus
// the auth trusted origins, deduplicated. Trusted origins must be able to
// send credentialed requests, so they are always allowed cross-origin.
func (c *Config) AllowedOrigins() []string {
	seen := make(map[string]struct{}, len(c.CORSOrigins)+len(c.TrustedOrigins))
	var origins []string
	for _, o := range append(append([]string(nil), c.CORSOrigins...), c.TrustedOrigins...) {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		origins = append(origins, o)
	}
	return origins
}

// SecureCookies reports whether session cookies should carry the Secure
// flag, decided by the scheme the API is served on.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.AuthURL, "https://")
}

// parseOriginList splits a comma-separated origin list. When requireURL
// is set, every entry must parse as an absolute URL.
func parseOriginList(raw string, requireURL bool) ([]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("must contain at least one origin")
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if requireURL {
			u, err := url.Parse(o)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return nil, fmt.Errorf("%q is not a valid URL", o)
			}
		}
		origins = append(origins, o)
	}
	if len(origins) == 0 {
		return nil, fmt.Errorf("must contain at least one origin")
	}
	return origins, nil
}
