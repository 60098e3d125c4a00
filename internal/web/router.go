package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/farklestats/internal/metrics"
	"github.com/mcoot/farklestats/internal/services/stats"
	"github.com/mcoot/farklestats/internal/web/handler"
	"github.com/mcoot/farklestats/internal/web/middleware"
	"github.com/mcoot/farklestats/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger       *slog.Logger
	StatsService *stats.Service
	Metrics      *metrics.Metrics
	// Events enables GET /events and live leaderboard refresh (optional)
	Events *sse.Hub
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the read-only HTML pages on r
func Register(r *mux.Router, cfg RouterConfig) {
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.StatsService, cfg.Events != nil, cfg.Logger)
	playerHandler := handler.NewPlayerHandler(cfg.StatsService, cfg.Logger)

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Recovery(cfg.Logger))
	pages.Use(middleware.Logging(cfg.Logger))
	pages.Use(cfg.Metrics.Middleware)

	pages.HandleFunc("/", leaderboardHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/leaderboard", leaderboardHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/players/{player_id}", playerHandler.View).Methods(http.MethodGet)

	if cfg.Events != nil {
		eventsHandler := handler.NewEventsHandler(cfg.Events)
		pages.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)
	}
}
