package mocks

import (
	"sync"

	"github.com/mcoot/farklestats/internal/model"
)

// RecordingPublisher records published events for assertions
type RecordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

var _ model.EventPublisher = (*RecordingPublisher)(nil)

// NewRecordingPublisher creates a new RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records event
func (p *RecordingPublisher) Publish(event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of everything published so far
func (p *RecordingPublisher) Events() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Event(nil), p.events...)
}
