package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from .env and environment variables.
type Config struct {
	HTTPAddr        string
	TLSCert         string
	TLSKey          string
	DatabaseURL     string
	TokenKey        string
	TokenTTL        time.Duration
	LogDebug        bool
	RateLimit       float64
	RateBurst       int
	MaxLayers       int
	ShutdownTimeout time.Duration
	StaticDir       string
}

const defaultDatabaseURL = "user=postgres dbname=postgres password=password sslmode=disable"

// Load reads .env when present, then the environment, applying defaults where unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		HTTPAddr:    envOrDefault("HTTP_ADDR", ":8443"),
		TLSCert:     os.Getenv("TLS_CERT"),
		TLSKey:      os.Getenv("TLS_KEY"),
		DatabaseURL: envOrDefault("DATABASE_URL", defaultDatabaseURL),
		TokenKey:    os.Getenv("TOKEN_KEY"),
		StaticDir:   envOrDefault("STATIC_DIR", "./static"),
		LogDebug:    os.Getenv("LOG_DEBUG") == "true",
	}

	var err error
	if cfg.TokenTTL, err = parseDuration("TOKEN_TTL", "720h"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = strconv.ParseFloat(envOrDefault("RATE_LIMIT", "1"), 64); err != nil || cfg.RateLimit <= 0 {
		return nil, errors.New("invalid RATE_LIMIT")
	}
	if cfg.RateBurst, err = strconv.Atoi(envOrDefault("RATE_BURST", "3")); err != nil || cfg.RateBurst <= 0 {
		return nil, errors.New("invalid RATE_BURST")
	}
	if cfg.MaxLayers, err = strconv.Atoi(envOrDefault("MAX_LAYERS", "20")); err != nil || cfg.MaxLayers <= 0 {
		return nil, errors.New("invalid MAX_LAYERS")
	}

	if cfg.TokenKey == "" {
		return nil, errors.New("TOKEN_KEY is required")
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return nil, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return cfg, nil
}

func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
