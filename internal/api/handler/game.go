package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/farklestats/internal/api/request"
	"github.com/mcoot/farklestats/internal/api/response"
	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/services/games"
)

// GameHandler handles game submission and lookup
type GameHandler struct {
	games *games.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *games.Service) *GameHandler {
	return &GameHandler{
		games: games,
	}
}

// Submit handles POST /api/v1/games
func (h *GameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		WriteError(w, NewInvalidRequestError("user_id is required"))
		return
	}

	game, err := h.games.Submit(r.Context(), games.SubmitParams{
		UserID:   model.UserID(req.UserID),
		PlayedAt: req.PlayedAt,
		Entries:  req.Entries(),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SubmittedGame{GameID: string(game.ID)})
}

// Get handles GET /api/v1/games/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["game_id"])

	game, err := h.games.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}
