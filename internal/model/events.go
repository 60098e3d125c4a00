package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventPlayerRegistered EventType = "player-registered"
	EventPlayerDeleted    EventType = "player-deleted"
	EventGameRecorded     EventType = "game-recorded"
)

// Event describes a change that has already been stored
type Event struct {
	Type      EventType
	Timestamp time.Time
	UserID    UserID   // Empty for player deletions
	PlayerID  PlayerID // Empty for game events
	GameID    GameID   // Empty for player events
}

// EventPublisher receives events after the write they describe commits.
// Publish must not block.
type EventPublisher interface {
	Publish(event Event)
}
