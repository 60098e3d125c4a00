package model

import (
	"fmt"
	"time"
)

// GameID uniquely identifies a completed game session
type GameID string

// ResultID uniquely identifies a single player's result in a game
type ResultID string

// Game is one completed play session. Games are append-only.
type Game struct {
	ID       GameID
	UserID   UserID
	PlayedAt time.Time
	Results  []GameResult
}

// GameResult is one player's outcome within a game.
// PlayerID is nil once the referenced profile has been deleted.
type GameResult struct {
	ID         ResultID
	GameID     GameID
	PlayerID   *PlayerID
	Score      int
	TurnsTaken int
	Farkles    int
	Won        bool
}

// ResultEntry is a validated per-player outcome submitted for a new game
type ResultEntry struct {
	PlayerID   PlayerID
	Score      int
	TurnsTaken int
	Farkles    int
	Won        bool
}

// ValidateEntries checks a game submission's entries.
// Win flags are not cross-checked: co-operative or tied games may mark several winners.
func ValidateEntries(entries []ResultEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: at least one result is required", ErrInvalidResult)
	}

	seen := make(map[PlayerID]bool, len(entries))
	for i, e := range entries {
		if e.PlayerID == "" {
			return fmt.Errorf("%w: result %d has no player_id", ErrInvalidResult, i)
		}
		if e.Score < 0 || e.TurnsTaken < 0 || e.Farkles < 0 {
			return fmt.Errorf("%w: result %d has a negative value", ErrInvalidResult, i)
		}
		if seen[e.PlayerID] {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, e.PlayerID)
		}
		seen[e.PlayerID] = true
	}
	return nil
}

// CheckDistinctPlayers reports ErrDuplicatePlayer when a player has more
// than one result in the game
func (g *Game) CheckDistinctPlayers() error {
	seen := make(map[PlayerID]bool, len(g.Results))
	for _, r := range g.Results {
		if r.PlayerID == nil {
			continue
		}
		if seen[*r.PlayerID] {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, *r.PlayerID)
		}
		seen[*r.PlayerID] = true
	}
	return nil
}

// PlayerIDs returns the distinct player ids referenced by the results, in order
func (g *Game) PlayerIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(g.Results))
	seen := make(map[PlayerID]bool, len(g.Results))
	for _, r := range g.Results {
		if r.PlayerID == nil || seen[*r.PlayerID] {
			continue
		}
		seen[*r.PlayerID] = true
		ids = append(ids, *r.PlayerID)
	}
	return ids
}
