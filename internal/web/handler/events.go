package handler

import (
	"net/http"

	"github.com/mcoot/farklestats/internal/web/sse"
)

// EventsHandler streams leaderboard change notifications
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub)
}
