package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/farklestats/internal/api/request"
	"github.com/mcoot/farklestats/internal/api/response"
	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/services/players"
	"github.com/mcoot/farklestats/internal/services/stats"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	players *players.Service
	stats   *stats.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players *players.Service, stats *stats.Service) *PlayerHandler {
	return &PlayerHandler{
		players: players,
		stats:   stats,
	}
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.UserID == "" {
		WriteError(w, NewInvalidRequestError("user_id is required"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	reg, err := h.players.Register(r.Context(), model.UserID(req.UserID), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisteredPlayerFromModel(reg))
}

// Delete handles DELETE /api/v1/players/{player_id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["player_id"])

	if err := h.players.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Stats handles GET /api/v1/players/{player_id}/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["player_id"])

	totals, err := h.stats.PlayerStats(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromModel(totals))
}
