package request

import (
	"time"

	"github.com/mcoot/farklestats/internal/model"
)

// RegisterPlayerRequest is the request body for registering a player
type RegisterPlayerRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// ResultEntry is one player's outcome in a SubmitGameRequest
type ResultEntry struct {
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
	Turns    int    `json:"turns"`
	Farkles  int    `json:"farkles"`
	Won      bool   `json:"won"`
}

// SubmitGameRequest is the request body for recording a completed game
type SubmitGameRequest struct {
	UserID   string        `json:"user_id"`
	PlayedAt *time.Time    `json:"played_at,omitempty"`
	Results  []ResultEntry `json:"results"`
}

// Entries converts the request's results to model entries
func (r SubmitGameRequest) Entries() []model.ResultEntry {
	entries := make([]model.ResultEntry, len(r.Results))
	for i, e := range r.Results {
		entries[i] = model.ResultEntry{
			PlayerID:   model.PlayerID(e.PlayerID),
			Score:      e.Score,
			TurnsTaken: e.Turns,
			Farkles:    e.Farkles,
			Won:        e.Won,
		}
	}
	return entries
}
