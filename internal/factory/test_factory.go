package factory

import (
	"time"

	"github.com/mcoot/sketchgame/internal/dependencies/mocks"
	"github.com/mcoot/sketchgame/internal/services/session"
	"github.com/mcoot/sketchgame/internal/storage/memory"
	"github.com/mcoot/sketchgame/internal/testutil"
	"github.com/mcoot/sketchgame/internal/web/realtime"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, session.DefaultConfig(), realtime.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// LoadTestThemes loads small word pools for testing. With an empty random
// queue, draws offer the first words in list order.
func (t *TestApp) LoadTestThemes() error {
	themes := map[string][]string{
		"default": {"apple", "house", "guitar", "rocket", "banana", "pencil"},
		"animals": {"cat", "dog", "owl", "giraffe"},
	}
	for theme, words := range themes {
		if err := t.WordService.LoadWords(theme, words); err != nil {
			return err
		}
	}
	return nil
}
