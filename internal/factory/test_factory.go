package factory

import (
	"time"

	"github.com/mcoot/farklestats/internal/dependencies/mocks"
	"github.com/mcoot/farklestats/internal/metrics"
	"github.com/mcoot/farklestats/internal/storage/memory"
	"github.com/mcoot/farklestats/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDGenerator
}

// NewTestApp creates an App on memory storage with a mocked clock and id
// generator and live metrics
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDGenerator()

	app := newWithDependencies(store, mockClock, mockIDs, metrics.New(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
