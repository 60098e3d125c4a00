package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/farklestats/internal/model"
)

// Broadcaster publishes domain events to SSE clients
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

type eventData struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
	PlayerID  string    `json:"player_id,omitempty"`
	GameID    string    `json:"game_id,omitempty"`
}

// Publish broadcasts event under its type name with a JSON body
func (b *Broadcaster) Publish(event model.Event) {
	data, err := json.Marshal(eventData{
		Timestamp: event.Timestamp,
		UserID:    string(event.UserID),
		PlayerID:  string(event.PlayerID),
		GameID:    string(event.GameID),
	})
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	b.hub.BroadcastEvent(string(event.Type), string(data))
}
