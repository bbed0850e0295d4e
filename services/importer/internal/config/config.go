package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/monai/airquality-dashboard/internal/logging"
)

const (
	defaultMQTTPort     = 1883
	defaultMQTTTopic    = "airq/+/telemetry"
	defaultMQTTClientID = "airq-importer"
)

// Encodings accepted by IMPORT_ENCODING.
const (
	EncodingUTF8   = "utf-8"
	EncodingCP1251 = "cp1251"
)

// Config holds runtime configuration for the importer service.
type Config struct {
	DatabaseURL string
	ImportPaths []string
	Encoding    string

	MQTTBroker   string
	MQTTPort     int
	MQTTTopic    string
	MQTTClientID string

	DryRun   bool
	AppEnv   string
	LogLevel slog.Level
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	for _, p := range strings.Split(os.Getenv("IMPORT_PATHS"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.ImportPaths = append(cfg.ImportPaths, p)
		}
	}

	cfg.Encoding = strings.ToLower(strings.TrimSpace(os.Getenv("IMPORT_ENCODING")))
	switch cfg.Encoding {
	case "", "utf8", EncodingUTF8:
		cfg.Encoding = EncodingUTF8
	case "windows-1251", EncodingCP1251:
		cfg.Encoding = EncodingCP1251
	default:
		return cfg, fmt.Errorf("invalid IMPORT_ENCODING %q (allowed: utf-8, cp1251)", cfg.Encoding)
	}

	cfg.MQTTBroker = strings.TrimSpace(os.Getenv("MQTT_BROKER"))

	cfg.MQTTPort = defaultMQTTPort
	if v := strings.TrimSpace(os.Getenv("MQTT_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid MQTT_PORT: %s", v)
		}
		cfg.MQTTPort = port
	}

	cfg.MQTTTopic = strings.TrimSpace(os.Getenv("MQTT_TOPIC"))
	if cfg.MQTTTopic == "" {
		cfg.MQTTTopic = defaultMQTTTopic
	}

	cfg.MQTTClientID = strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if cfg.MQTTClientID == "" {
		cfg.MQTTClientID = defaultMQTTClientID
	}

	if len(cfg.ImportPaths) == 0 && cfg.MQTTBroker == "" {
		return cfg, errors.New("nothing to do: set IMPORT_PATHS and/or MQTT_BROKER")
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	var err error
	if cfg.AppEnv, err = logging.ParseEnv(os.Getenv("APP_ENV")); err != nil {
		return cfg, err
	}
	if cfg.LogLevel, err = logging.ParseLevel(os.Getenv("LOG_LEVEL")); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// MQTTEnabled reports whether the telemetry subscriber should run.
func (c Config) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}
