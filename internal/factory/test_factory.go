package factory

import (
	"log/slog"
	"time"

	"github.com/nelson/you-are-the-hero/internal/dependencies/mocks"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
	"github.com/nelson/you-are-the-hero/internal/storage/memory"
	"github.com/nelson/you-are-the-hero/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockRandom  *mocks.MockRandom
	MemoryStore *memory.Storage
}

// NewTestApp creates an App over the memory store with a mocked clock and
// random source and the plain test hasher
func NewTestApp() *TestApp {
	return NewTestAppWithLogger(testutil.NopLogger())
}

// NewTestAppWithLogger is NewTestApp with a caller-supplied logger
func NewTestAppWithLogger(logger *slog.Logger) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mocks.PlainHasher{}, mockClock, mockRandom, auth.DefaultConfig(), logger)

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		MemoryStore: store,
	}
}

// QueueTokens makes the next sessions use the given token bodies
func (t *TestApp) QueueTokens(tokens ...string) {
	t.MockRandom.QueueString(tokens...)
}
