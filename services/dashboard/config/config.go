package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/monai/airquality-dashboard/internal/logging"
)

// Config holds environment-driven settings for the dashboard service.
type Config struct {
	BackendURL     string
	DatabaseURL    string
	Port           int
	BearerToken    string
	BackendTimeout time.Duration
	ChartWidth     int
	ChartHeight    int
	AppEnv         string
	LogLevel       slog.Level
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           8080,
		BackendTimeout: 15 * time.Second,
		ChartWidth:     960,
		ChartHeight:    360,
	}

	cfg.BackendURL = strings.TrimSpace(os.Getenv("BACKEND_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.BackendURL == "" && cfg.DatabaseURL == "" {
		return cfg, errors.New("BACKEND_URL or DATABASE_URL is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if s := os.Getenv("BACKEND_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cfg.BackendTimeout = d
		} else {
			return cfg, fmt.Errorf("invalid BACKEND_TIMEOUT: %s", s)
		}
	}

	var err error
	if cfg.ChartWidth, err = positiveInt("CHART_WIDTH", cfg.ChartWidth); err != nil {
		return cfg, err
	}
	if cfg.ChartHeight, err = positiveInt("CHART_HEIGHT", cfg.ChartHeight); err != nil {
		return cfg, err
	}

	if cfg.AppEnv, err = logging.ParseEnv(os.Getenv("APP_ENV")); err != nil {
		return cfg, err
	}
	if cfg.LogLevel, err = logging.ParseLevel(os.Getenv("LOG_LEVEL")); err != nil {
		return cfg, err
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

func positiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def, fmt.Errorf("invalid %s: %s", key, s)
	}
	return n, nil
}

// UseDatabase reports whether the dashboard reads Postgres directly instead of
// the REST backend.
func (c Config) UseDatabase() bool {
	return c.BackendURL == ""
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
