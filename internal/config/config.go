package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all console configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Catalog CatalogConfig
	Redis   RedisConfig
	Session SessionConfig
	Worker  WorkerConfig
	Console ConsoleConfig
}

// CatalogConfig contains connection parameters for the product service.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig contains Redis connection parameters. An empty Host disables
// the Redis-backed session store.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SessionConfig describes where the admin bearer token comes from.
type SessionConfig struct {
	// Token is a static bearer token used when Redis is not configured.
	Token string
	// Key is the Redis key holding the token.
	Key string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	// RefreshInterval re-issues the current list query periodically; 0 disables it.
	RefreshInterval time.Duration
}

// ConsoleConfig tunes the presentation surface.
type ConsoleConfig struct {
	PageWindowRadius int
	// AllowedHosts are extra CORS origins (host[:port]) allowed to call the console.
	AllowedHosts []string
	// WriteRateLimit caps write requests per client IP per minute; 0 disables it.
	WriteRateLimit int
	// StreamEnabled exposes the snapshot stream endpoint.
	StreamEnabled bool
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Product service
	cfg.Catalog.BaseURL = getEnv("CATALOG_BASE_URL", "http://localhost:5000/api")

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Session
	cfg.Session = SessionConfig{
		Token: getEnv("CATALOG_TOKEN", ""),
		Key:   getEnv("SESSION_TOKEN_KEY", "session:admin:token"),
	}

	cfg.Console.PageWindowRadius = getEnvInt("PAGE_WINDOW_RADIUS", 2)
	cfg.Console.AllowedHosts = splitList(getEnv("CORS_ALLOWED_HOSTS", ""))
	cfg.Console.WriteRateLimit = getEnvInt("WRITE_RATE_LIMIT", 60)
	cfg.Console.StreamEnabled = getEnvBool("STREAM_ENABLED", true)

	// Durations
	var err error
	if cfg.Catalog.Timeout, err = parseDurationEnv("CATALOG_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_TIMEOUT: %w", err)
	}
	if cfg.Worker.RefreshInterval, err = parseDurationEnv("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}

	u, err := url.Parse(cfg.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("CATALOG_BASE_URL must be an absolute URL such as http://localhost:5000/api")
	}

	if cfg.Console.PageWindowRadius < 1 {
		return nil, errors.New("PAGE_WINDOW_RADIUS must be at least 1")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvBool returns the value of an environment variable as a bool or a default if empty/invalid.
func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
