package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/services/stats"
	"github.com/mcoot/farklestats/internal/web/templates/layout"
	"github.com/mcoot/farklestats/internal/web/templates/pages"
)

// PlayerHandler serves player stats pages
type PlayerHandler struct {
	stats  *stats.Service
	logger *slog.Logger
}

// NewPlayerHandler creates a new PlayerHandler
func NewPlayerHandler(stats *stats.Service, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		stats:  stats,
		logger: logger,
	}
}

// View renders GET /players/{player_id}
func (h *PlayerHandler) View(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["player_id"])

	totals, err := h.stats.PlayerStats(r.Context(), id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		renderError(w, r, http.StatusNotFound, "That player does not exist.")
		return
	}
	if err != nil {
		renderInternalError(w, r, h.logger, err)
		return
	}

	render(w, r, http.StatusOK, pages.Player(pages.PlayerData{
		PageData: layout.PageData{Title: totals.DisplayName},
		Stats:    *totals,
	}))
}
