package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monai/airquality-dashboard/internal/logging"
	"github.com/monai/airquality-dashboard/internal/schema"
	"github.com/monai/airquality-dashboard/services/importer/internal/config"
	"github.com/monai/airquality-dashboard/services/importer/internal/db"
	"github.com/monai/airquality-dashboard/services/importer/internal/models"
	"github.com/monai/airquality-dashboard/services/importer/internal/telemetry"
	"github.com/monai/airquality-dashboard/services/importer/internal/uhmc"
	"github.com/monai/airquality-dashboard/services/importer/internal/utils"
)

const storeTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("importer failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel, "importer")
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !cfg.DryRun {
		if err := schema.Apply(ctx, pool); err != nil {
			return err
		}
	}

	for _, path := range cfg.ImportPaths {
		res, err := importFile(ctx, pool, cfg, logger, path)
		if err != nil {
			return err
		}
		for _, e := range res.Errors {
			logger.Warn("skipped line", "source", res.Source, "error", e)
		}
		logger.Info("import finished",
			"source", res.Source,
			"lines", res.Lines,
			"readings", res.Readings,
			"stored", res.Stored,
			"skipped", len(res.Errors),
			"dry_run", cfg.DryRun,
		)
	}

	if !cfg.MQTTEnabled() {
		return nil
	}
	return listen(ctx, pool, cfg, logger)
}

func importFile(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger, path string) (models.ImportResult, error) {
	res := models.ImportResult{Source: path}

	f, err := os.Open(path)
	if err != nil {
		return res, err
	}
	defer f.Close()

	parsed, err := uhmc.Parse(f, path, uhmc.Options{Encoding: cfg.Encoding})
	if err != nil {
		return res, fmt.Errorf("parse %s: %w", path, err)
	}
	res.Lines = parsed.Lines
	res.Errors = parsed.Errors

	readings := utils.Dedupe(parsed.Readings)
	res.Readings = len(readings)

	if cfg.DryRun {
		for _, r := range readings {
			logger.Debug("dry-run: would store",
				"city", r.City,
				"station", r.Station,
				"pollutant", r.Pollutant,
				"date", r.Date.Format("2006-01-02"),
				"value", utils.ValueString(r.Value),
			)
		}
		return res, nil
	}

	res.Stored, err = db.Store(ctx, pool, readings)
	if err != nil {
		return res, fmt.Errorf("store %s: %w", path, err)
	}
	return res, nil
}

func listen(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger) error {
	sub := telemetry.NewSubscriber(cfg, logger)
	sub.SetMessageHandler(func(r models.Reading) error {
		if cfg.DryRun {
			logger.Info("dry-run: would store telemetry", "station", r.Station, "value", utils.ValueString(r.Value))
			return nil
		}
		storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		_, err := db.Store(storeCtx, pool, []models.Reading{r})
		return err
	})

	if err := sub.Connect(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer sub.Disconnect()

	<-ctx.Done()
	logger.Info("shutting down telemetry subscriber")
	return nil
}
