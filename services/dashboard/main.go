package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/monai/airquality-dashboard/internal/logging"
	"github.com/monai/airquality-dashboard/services/dashboard/backend"
	"github.com/monai/airquality-dashboard/services/dashboard/config"
	"github.com/monai/airquality-dashboard/services/dashboard/db"
	httpserver "github.com/monai/airquality-dashboard/services/dashboard/http"
	"github.com/monai/airquality-dashboard/services/dashboard/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel, "dashboard")
	slog.SetDefault(logger)

	if err := views.LoadTemplates(); err != nil {
		logger.Error("load templates", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var deps httpserver.Deps
	if cfg.UseDatabase() {
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connection error", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			logger.Error("migrate", "error", err)
			os.Exit(1)
		}
		if cfg.BearerToken == "" {
			logger.Warn("API_BEARER_TOKEN is empty: station management is disabled")
		}

		deps = httpserver.Deps{
			Data:     store,
			Accounts: httpserver.OperatorAccounts{Token: cfg.BearerToken},
			Stations: httpserver.StoreStations{Store: store},
			Health:   store.Ping,
		}
		logger.Info("reading measurements from database")
	} else {
		client := backend.New(cfg.BackendURL, &http.Client{Timeout: cfg.BackendTimeout})
		deps = httpserver.Deps{
			Data:     client,
			Accounts: client,
			Stations: client,
		}
		logger.Info("reading measurements from backend", "url", cfg.BackendURL)
	}

	srv := httpserver.New(cfg, deps, logger)
	logger.Info("dashboard listening", "addr", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
