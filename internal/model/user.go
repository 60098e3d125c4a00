package model

import "time"

// UserID identifies an account or device that owns players
type UserID string

// LoginType classifies how a user was identified
type LoginType string

const (
	LoginTypeAnonymous LoginType = "anonymous"
	LoginTypeGoogle    LoginType = "google"
)

// User is the identity anchor for players and games.
// Users are created on first reference and never deleted.
type User struct {
	ID        UserID
	LoginType LoginType
	CreatedAt time.Time
}
