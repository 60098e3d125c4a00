package response

import (
	"time"

	"github.com/mcoot/farklestats/internal/model"
	"github.com/mcoot/farklestats/internal/services/players"
)

// RegisteredPlayer is the response for player registration
type RegisteredPlayer struct {
	PlayerID    string `json:"player_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	UserCreated bool   `json:"user_created"`
}

// RegisteredPlayerFromModel converts a players.Registration
func RegisteredPlayerFromModel(r *players.Registration) RegisteredPlayer {
	return RegisteredPlayer{
		PlayerID:    string(r.Player.ID),
		UserID:      string(r.Player.UserID),
		DisplayName: r.Player.DisplayName,
		UserCreated: r.UserCreated,
	}
}

// PlayerStats is the full aggregate record for one player
type PlayerStats struct {
	PlayerID     string  `json:"player_id"`
	DisplayName  string  `json:"display_name"`
	GamesPlayed  int     `json:"games_played"`
	Wins         int     `json:"wins"`
	TotalPoints  int     `json:"total_points"`
	AvgScore     float64 `json:"avg_score"`
	TotalFarkles int     `json:"total_farkles"`
	HighScore    int     `json:"high_score"`
}

// PlayerStatsFromModel converts model.PlayerTotals
func PlayerStatsFromModel(t *model.PlayerTotals) PlayerStats {
	return PlayerStats{
		PlayerID:     string(t.PlayerID),
		DisplayName:  t.DisplayName,
		GamesPlayed:  t.GamesPlayed,
		Wins:         t.Wins,
		TotalPoints:  t.TotalPoints,
		AvgScore:     t.AvgScore(),
		TotalFarkles: t.TotalFarkles,
		HighScore:    t.HighScore,
	}
}

// SubmittedGame is the response for recording a game
type SubmittedGame struct {
	GameID string `json:"game_id"`
}

// GameResult is one player's outcome within a Game
type GameResult struct {
	ResultID string  `json:"result_id"`
	PlayerID *string `json:"player_id"`
	Score    int     `json:"score"`
	Turns    int     `json:"turns"`
	Farkles  int     `json:"farkles"`
	Won      bool    `json:"won"`
}

// Game is a recorded game with its results in submission order
type Game struct {
	GameID   string       `json:"game_id"`
	UserID   string       `json:"user_id"`
	PlayedAt time.Time    `json:"played_at"`
	Results  []GameResult `json:"results"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	results := make([]GameResult, len(g.Results))
	for i, r := range g.Results {
		var playerID *string
		if r.PlayerID != nil {
			id := string(*r.PlayerID)
			playerID = &id
		}
		results[i] = GameResult{
			ResultID: string(r.ID),
			PlayerID: playerID,
			Score:    r.Score,
			Turns:    r.TurnsTaken,
			Farkles:  r.Farkles,
			Won:      r.Won,
		}
	}
	return Game{
		GameID:   string(g.ID),
		UserID:   string(g.UserID),
		PlayedAt: g.PlayedAt,
		Results:  results,
	}
}

// LeaderboardRow is one ranked player
type LeaderboardRow struct {
	PlayerID    string  `json:"player_id"`
	DisplayName string  `json:"display_name"`
	Wins        int     `json:"wins"`
	AvgScore    float64 `json:"avg_score"`
	TotalPoints int     `json:"total_points"`
}

// Leaderboard is the response for the leaderboard endpoint
type Leaderboard struct {
	Sort  string           `json:"sort"`
	Limit int              `json:"limit"`
	Rows  []LeaderboardRow `json:"rows"`
}

// LeaderboardFromModel converts ranked totals
func LeaderboardFromModel(key model.SortKey, limit int, totals []model.PlayerTotals) Leaderboard {
	rows := make([]LeaderboardRow, len(totals))
	for i, t := range totals {
		rows[i] = LeaderboardRow{
			PlayerID:    string(t.PlayerID),
			DisplayName: t.DisplayName,
			Wins:        t.Wins,
			AvgScore:    t.AvgScore(),
			TotalPoints: t.TotalPoints,
		}
	}
	return Leaderboard{Sort: string(key), Limit: limit, Rows: rows}
}

// PlayerSummary is a player row in a user's player list
type PlayerSummary struct {
	PlayerID    string  `json:"player_id"`
	DisplayName string  `json:"display_name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	AvgScore    float64 `json:"avg_score"`
	TotalPoints int     `json:"total_points"`
}

// UserPlayers is the response for listing a user's players
type UserPlayers struct {
	UserID  string          `json:"user_id"`
	Players []PlayerSummary `json:"players"`
}

// UserPlayersFromModel converts a user's player totals
func UserPlayersFromModel(userID model.UserID, totals []model.PlayerTotals) UserPlayers {
	out := make([]PlayerSummary, len(totals))
	for i, t := range totals {
		out[i] = PlayerSummary{
			PlayerID:    string(t.PlayerID),
			DisplayName: t.DisplayName,
			GamesPlayed: t.GamesPlayed,
			Wins:        t.Wins,
			AvgScore:    t.AvgScore(),
			TotalPoints: t.TotalPoints,
		}
	}
	return UserPlayers{UserID: string(userID), Players: out}
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}
