package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/services/stats"
	"github.com/mcoot/farklestats/internal/web/templates/layout"
	"github.com/mcoot/farklestats/internal/web/templates/pages"
)

// LeaderboardHandler serves the leaderboard page
type LeaderboardHandler struct {
	stats  *stats.Service
	live   bool
	logger *slog.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler. When live is set the
// page reloads itself on GET /events notifications.
func NewLeaderboardHandler(stats *stats.Service, live bool, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		stats:  stats,
		live:   live,
		logger: logger,
	}
}

// View renders GET / and GET /leaderboard
func (h *LeaderboardHandler) View(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key, err := model.ParseSortKey(q.Get("sort"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "Unknown sort order.")
		return
	}

	limit := model.DefaultLeaderboardLimit
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || model.ValidateLimit(limit) != nil {
			renderError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Limit must be a number between 1 and %d.", model.MaxLeaderboardLimit))
			return
		}
	}

	rows, err := h.stats.Leaderboard(r.Context(), key, limit)
	if err != nil {
		renderInternalError(w, r, h.logger, err)
		return
	}

	render(w, r, http.StatusOK, pages.Leaderboard(pages.LeaderboardData{
		PageData: layout.PageData{Title: "Leaderboard"},
		Sort:     key,
		Limit:    limit,
		Rows:     rows,
		Live:     h.live,
	}))
}
