package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/dependencies/random"
	"github.com/mcoot/sketchgame/internal/services/session"
	"github.com/mcoot/sketchgame/internal/services/timer"
	"github.com/mcoot/sketchgame/internal/services/words"
	"github.com/mcoot/sketchgame/internal/storage"
	"github.com/mcoot/sketchgame/internal/storage/memory"
	redisstorage "github.com/mcoot/sketchgame/internal/storage/redis"
	"github.com/mcoot/sketchgame/internal/web/realtime"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	WordService *words.Service
	Timers      *timer.Registry
	HubManager  *realtime.HubManager
	Broadcaster *realtime.Broadcaster
	Coordinator *session.Coordinator

	RealtimeConfig realtime.Config

	stopSweep context.CancelFunc
}

// Config holds configuration for the application factory
type Config struct {
	// ThemesDir is a directory of <theme>.txt word lists (optional).
	// If empty, themes already in storage are used.
	ThemesDir string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Session holds game timings (optional)
	// If zero value, defaults to session.DefaultConfig()
	Session session.Config
	// Realtime holds connection tuning (optional)
	// If zero value, defaults to realtime.DefaultConfig()
	Realtime realtime.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	sessionCfg := cfg.Session
	if sessionCfg == (session.Config{}) {
		sessionCfg = session.DefaultConfig()
	}
	realtimeCfg := cfg.Realtime
	if realtimeCfg == (realtime.Config{}) {
		realtimeCfg = realtime.DefaultConfig()
	}

	app := newWithDependencies(store, clock.New(), random.New(), sessionCfg, realtimeCfg, logger)

	if cfg.ThemesDir != "" {
		if err := app.WordService.LoadFromDir(ctx, cfg.ThemesDir); err != nil {
			app.Close()
			return nil, fmt.Errorf("loading themes: %w", err)
		}
	} else if err := app.WordService.LoadFromStorage(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("loading themes: %w", err)
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	sessionCfg session.Config,
	realtimeCfg realtime.Config,
	logger *slog.Logger,
) *App {
	wordService := words.New(store, rnd)
	timers := timer.NewRegistry(clk, logger)
	hubManager := realtime.NewHubManager(logger)
	broadcaster := realtime.NewBroadcaster(hubManager, logger)
	coordinator := session.NewCoordinator(store, wordService, timers, broadcaster, clk, rnd, logger, sessionCfg)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	if realtimeCfg.HubSweepInterval > 0 {
		go hubManager.Sweep(sweepCtx, realtimeCfg.HubSweepInterval)
	}

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		WordService:    wordService,
		Timers:         timers,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
		Coordinator:    coordinator,
		RealtimeConfig: realtimeCfg,
		stopSweep:      stopSweep,
	}
}

// Close stops every timer, disconnects every client and releases storage
func (a *App) Close() {
	a.stopSweep()
	a.Coordinator.Close()
	a.HubManager.CloseAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		_ = closer.Close()
	}
}
