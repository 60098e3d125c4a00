package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/farklestats/internal/api/response"
	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/services/stats"
)

// StatsHandler handles leaderboard and per-user listings
type StatsHandler struct {
	stats *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *stats.Service) *StatsHandler {
	return &StatsHandler{
		stats: stats,
	}
}

// Leaderboard handles GET /api/v1/leaderboard?sort=&limit=
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	key, limit, err := LeaderboardQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	totals, err := h.stats.Leaderboard(r.Context(), key, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(key, limit, totals))
}

// UserPlayers handles GET /api/v1/users/{user_id}/players
func (h *StatsHandler) UserPlayers(w http.ResponseWriter, r *http.Request) {
	userID := model.UserID(mux.Vars(r)["user_id"])

	totals, err := h.stats.UserPlayers(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserPlayersFromModel(userID, totals))
}

// LeaderboardQuery reads and validates the sort and limit query parameters
func LeaderboardQuery(r *http.Request) (model.SortKey, int, error) {
	q := r.URL.Query()

	key, err := model.ParseSortKey(q.Get("sort"))
	if err != nil {
		return "", 0, err
	}

	limit := model.DefaultLeaderboardLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", 0, model.ErrInvalidLimit
		}
		limit = n
	}
	if err := model.ValidateLimit(limit); err != nil {
		return "", 0, err
	}

	return key, limit, nil
}
