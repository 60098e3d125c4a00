package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/farklestats/internal/dependencies/idgen"
)

// MockIDGenerator is a mock implementation of Generator for testing
type MockIDGenerator struct {
	mu sync.Mutex

	// IDs is a queue of results to return from NewID
	IDs     []string
	idIndex int

	// fallback counter used once the queue is exhausted
	seq int
}

// Ensure MockIDGenerator implements Generator
var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a new MockIDGenerator
func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

// NewID returns the next queued id, or a sequential "id-N" once the queue is empty
func (g *MockIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idIndex < len(g.IDs) {
		id := g.IDs[g.idIndex]
		g.idIndex++
		return id
	}
	g.seq++
	return fmt.Sprintf("id-%d", g.seq)
}

// QueueID adds values to the NewID result queue
func (g *MockIDGenerator) QueueID(values ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.IDs = append(g.IDs, values...)
}

// Reset clears all queued ids and the fallback counter
func (g *MockIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.IDs = nil
	g.idIndex = 0
	g.seq = 0
}
