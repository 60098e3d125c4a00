package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/farklestats/internal/api/handler"
	"github.com/mcoot/farklestats/internal/api/middleware"
	"github.com/mcoot/farklestats/internal/api/response"
	"github.com/mcoot/farklestats/internal/metrics"
	"github.com/mcoot/farklestats/internal/services/games"
	"github.com/mcoot/farklestats/internal/services/players"
	"github.com/mcoot/farklestats/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	PlayersService *players.Service
	GamesService   *games.Service
	StatsService   *stats.Service
	// Metrics is optional; when nil no /metrics endpoint is served
	Metrics *metrics.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the API routes under /api/v1 on r, plus /metrics when
// metrics are enabled
func Register(r *mux.Router, cfg RouterConfig) {
	playerHandler := handler.NewPlayerHandler(cfg.PlayersService, cfg.StatsService)
	gameHandler := handler.NewGameHandler(cfg.GamesService)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(cfg.Metrics.Middleware)

	// Players
	api.HandleFunc("/players", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/{player_id}", playerHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/players/{player_id}/stats", playerHandler.Stats).Methods(http.MethodGet)

	// Games
	api.HandleFunc("/games", gameHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/games/{game_id}", gameHandler.Get).Methods(http.MethodGet)

	// Aggregates
	api.HandleFunc("/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/users/{user_id}/players", statsHandler.UserPlayers).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
