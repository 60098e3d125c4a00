package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Not found errors
	ErrUserNotFound   = errors.New("user not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")

	// Validation errors
	ErrInvalidResult   = errors.New("invalid game result")
	ErrDuplicatePlayer = errors.New("player appears more than once in game")
	ErrInvalidSortKey  = errors.New("invalid sort key")
	ErrInvalidLimit    = errors.New("limit out of range")
)

// PlayerNotFoundError names the player that could not be found.
// It matches ErrPlayerNotFound under errors.Is.
type PlayerNotFoundError struct {
	PlayerID PlayerID
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player %s not found", e.PlayerID)
}

func (e *PlayerNotFoundError) Unwrap() error {
	return ErrPlayerNotFound
}
