package storage

import (
	"context"

	"github.com/mcoot/farklestats/internal/model"
)

// Storage defines the interface for data persistence.
// Multi-row writes are atomic: on error nothing is persisted.
type Storage interface {
	// User operations
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)

	// Player operations

	// CreatePlayer inserts the player, first inserting user if no user with
	// that id exists. It reports whether the user was created.
	CreatePlayer(ctx context.Context, user *model.User, player *model.PlayerProfile) (bool, error)
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerProfile, error)
	// DeletePlayer removes the profile and nulls the player reference on its results
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Game operations

	// CreateGame persists a game together with all of its results. The user and
	// every referenced player must exist; otherwise nothing is written.
	CreateGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// Aggregate queries
	PlayerTotals(ctx context.Context, id model.PlayerID) (*model.PlayerTotals, error)
	// LeaderboardTotals returns totals for players with at least one result
	LeaderboardTotals(ctx context.Context) ([]model.PlayerTotals, error)
	// UserPlayerTotals returns totals for every profile of the user, including
	// profiles without results, ordered by creation time
	UserPlayerTotals(ctx context.Context, userID model.UserID) ([]model.PlayerTotals, error)

	Close() error
}
