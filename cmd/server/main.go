package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/mcoot/farklestats/internal/api"
	"github.com/mcoot/farklestats/internal/config"
	"github.com/mcoot/farklestats/internal/factory"
	"github.com/mcoot/farklestats/internal/logging"
	"github.com/mcoot/farklestats/internal/metrics"
	"github.com/mcoot/farklestats/internal/middleware"
	redisstorage "github.com/mcoot/farklestats/internal/storage/redis"
	"github.com/mcoot/farklestats/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Warn("falling back to info logging", slog.String("error", err.Error()))
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, level)
	slog.SetDefault(logger)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		SQLitePath:  cfg.SQLitePath,
		PostgresDSN: cfg.DatabaseURL,
		Metrics:     m,
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// API, metrics and HTML pages share one router
	router := mux.NewRouter()
	router.Use(middleware.RequestID)

	api.Register(router, api.RouterConfig{
		Logger:         logger,
		PlayersService: app.PlayersService,
		GamesService:   app.GamesService,
		StatsService:   app.StatsService,
		Metrics:        m,
	})
	if cfg.WebEnabled {
		web.Register(router, web.RouterConfig{
			Logger:       logger,
			StatsService: app.StatsService,
			Metrics:      m,
			Events:       app.Events,
		})
	}

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.HTTPHost
	serverConfig.Port = cfg.HTTPPort
	server := api.NewServer(router, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Bool("metrics", cfg.MetricsEnabled),
		slog.Bool("web", cfg.WebEnabled),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// End event streams first so Shutdown does not wait on them
		app.Events.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
