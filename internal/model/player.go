package model

import "time"

// PlayerID uniquely identifies a player profile
type PlayerID string

// PlayerProfile is a named persona under a user, the unit that accumulates stats.
// A single user may own several profiles for local multiplayer.
type PlayerProfile struct {
	ID          PlayerID
	UserID      UserID
	DisplayName string
	CreatedAt   time.Time
}
