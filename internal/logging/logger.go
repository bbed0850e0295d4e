// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a colored human-readable logger in dev and a JSON logger otherwise.
func New(appEnv string, level slog.Level, appName string) *slog.Logger {
	return newLogger(os.Stdout, appEnv, level, appName)
}

func newLogger(w io.Writer, appEnv string, level slog.Level, appName string) *slog.Logger {
	if appEnv == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With(
		"app", appName,
		"env", appEnv,
	)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

// ParseEnv validates APP_ENV, defaulting to dev.
func ParseEnv(s string) (string, error) {
	switch env := strings.TrimSpace(s); env {
	case "":
		return "dev", nil
	case "dev", "prod":
		return env, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", env)
	}
}
