package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/farklestats/internal/dependencies/clock"
	"github.com/mcoot/farklestats/internal/dependencies/idgen"
	"github.com/mcoot/farklestats/internal/metrics"
	"github.com/mcoot/farklestats/internal/services/games"
	"github.com/mcoot/farklestats/internal/services/players"
	"github.com/mcoot/farklestats/internal/services/stats"
	"github.com/mcoot/farklestats/internal/storage"
	"github.com/mcoot/farklestats/internal/storage/memory"
	"github.com/mcoot/farklestats/internal/storage/postgres"
	redisstorage "github.com/mcoot/farklestats/internal/storage/redis"
	"github.com/mcoot/farklestats/internal/storage/sqlite"
	"github.com/mcoot/farklestats/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeSQLite   = "sqlite"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Observability; nil when disabled
	Metrics *metrics.Metrics

	// Services
	PlayersService *players.Service
	GamesService   *games.Service
	StatsService   *stats.Service

	// Events streams player and game changes to browsers
	Events *sse.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string
	// Metrics receives domain counters (optional)
	Metrics *metrics.Metrics
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("storage opened", slog.String("type", storageTypeOrDefault(cfg.StorageType)))

	return newWithDependencies(store, clock.New(), idgen.New(), cfg.Metrics, logger), nil
}

func storageTypeOrDefault(t string) string {
	if t == "" {
		return StorageTypeMemory
	}
	return t
}

func openStorage(cfg Config) (storage.Storage, error) {
	switch storageTypeOrDefault(cfg.StorageType) {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlite.New(cfg.SQLitePath)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		return postgres.New(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, sqlite, redis or postgres", cfg.StorageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids idgen.Generator, m *metrics.Metrics, logger *slog.Logger) *App {
	hub := sse.NewHub(logger)
	go hub.Run()
	broadcaster := sse.NewBroadcaster(hub, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		IDs:            ids,
		Metrics:        m,
		PlayersService: players.New(store, clk, ids, m, broadcaster, logger.With(slog.String("service", "players"))),
		GamesService:   games.New(store, clk, ids, m, broadcaster, logger.With(slog.String("service", "games"))),
		StatsService:   stats.New(store),
		Events:         hub,
	}
}

// Close disconnects event subscribers and releases the storage backend
func (a *App) Close() error {
	a.Events.Close()
	return a.Storage.Close()
}
