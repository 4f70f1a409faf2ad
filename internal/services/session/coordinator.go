package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/sketchgame/internal/dependencies/clock"
	"github.com/mcoot/sketchgame/internal/dependencies/random"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/timer"
	"github.com/mcoot/sketchgame/internal/services/words"
	"github.com/mcoot/sketchgame/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Close reasons carried by room-closed events
const (
	CloseReasonHost             = "closed by host"
	CloseReasonNotEnoughPlayers = "not enough players"
)

// Coordinator drives the game state machine for every room.
// Every operation on a room runs under that room's lock and follows
// load, mutate, save, broadcast.
type Coordinator struct {
	storage     storage.Storage
	words       words.ServiceInterface
	timers      *timer.Registry
	broadcaster Broadcaster
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
	cfg         Config

	locks *roomLocks
}

// NewCoordinator creates a new session Coordinator
func NewCoordinator(
	storage storage.Storage,
	words words.ServiceInterface,
	timers *timer.Registry,
	broadcaster Broadcaster,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Coordinator {
	return &Coordinator{
		storage:     storage,
		words:       words,
		timers:      timers,
		broadcaster: broadcaster,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "session")),
		cfg:         cfg,
		locks:       newRoomLocks(),
	}
}

// Close stops every room timer
func (c *Coordinator) Close() {
	c.timers.CancelAll()
}

// CreateRoom creates a new room with the given player as host.
// A nil settings uses model.DefaultSettings.
func (c *Coordinator) CreateRoom(ctx context.Context, host model.Player, settings *model.Settings) (*model.Room, error) {
	s := model.DefaultSettings()
	if settings != nil {
		s = *settings
		if err := c.validateSettings(s); err != nil {
			return nil, err
		}
	}

	now := c.clock.Now()

	// Generate unique room code
	var code model.RoomCode
	for {
		code = model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	host = newPlayer(host, now)
	host.IsHost = true

	room := &model.Room{
		Code:         code,
		Players:      []model.Player{host},
		Status:       model.RoomStatusWaiting,
		CurrentRound: 1,
		PlayerOrder:  []model.PlayerID{},
		Settings:     s,
		GameState:    waitingState(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_code", string(code)),
		slog.String("host", string(host.ID)),
	)
	return room.Snapshot(), nil
}

// GetRoom returns a snapshot of the room that is safe to show any player
func (c *Coordinator) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	return room.Snapshot(), nil
}

// UpdateSettings replaces the room's settings. Host only, and not during a game.
func (c *Coordinator) UpdateSettings(ctx context.Context, code model.RoomCode, requester model.PlayerID, settings model.Settings) (*model.Room, error) {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if !room.IsHost(requester) {
		return nil, model.ErrForbidden
	}
	if room.Status == model.RoomStatusInProgress {
		return nil, model.ErrGameInProgress
	}
	if err := c.validateSettings(settings); err != nil {
		return nil, err
	}
	if settings.MaxPlayers < len(room.Players) {
		return nil, model.ErrInvalidSettings
	}

	room.Settings = settings
	if err := c.save(ctx, room); err != nil {
		return nil, err
	}
	c.broadcastRoomUpdate(room)
	return room.Snapshot(), nil
}

// CloseRoom tears the room down. Host only.
func (c *Coordinator) CloseRoom(ctx context.Context, code model.RoomCode, requester model.PlayerID) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if !room.IsHost(requester) {
		return model.ErrForbidden
	}
	return c.teardown(ctx, room, CloseReasonHost)
}

func (c *Coordinator) validateSettings(s model.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Theme != model.DefaultTheme && !c.words.HasTheme(s.Theme) {
		return fmt.Errorf("%w: unknown theme %q", model.ErrInvalidSettings, s.Theme)
	}
	return nil
}

// teardown deletes the room and disconnects everyone watching it
func (c *Coordinator) teardown(ctx context.Context, room *model.Room, reason string) error {
	c.timers.Cancel(room.Code)

	if err := c.storage.DeleteRoom(ctx, room.Code); err != nil {
		return err
	}

	c.broadcast(room.Code, model.EventRoomClosed, model.RoomClosedPayload{
		Code:   room.Code,
		Reason: reason,
	})
	c.broadcaster.CloseRoom(room.Code)

	c.logger.Info("room closed",
		slog.String("room_code", string(room.Code)),
		slog.String("reason", reason),
	)
	return nil
}

func (c *Coordinator) save(ctx context.Context, room *model.Room) error {
	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

func (c *Coordinator) broadcast(code model.RoomCode, eventType model.EventType, payload any) {
	c.broadcaster.Broadcast(code, c.event(code, eventType, payload))
}

func (c *Coordinator) event(code model.RoomCode, eventType model.EventType, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		RoomCode:  code,
		Payload:   payload,
	}
}

func (c *Coordinator) broadcastRoomUpdate(room *model.Room) {
	c.broadcast(room.Code, model.EventRoomUpdate, model.RoomUpdatePayload{Room: room.Snapshot()})
}

// roomTimer wraps fn as a timer callback. The callback takes the room lock,
// then checks the timer is still the room's live one, so a timer that was
// cancelled or replaced while waiting for the lock does nothing.
func (c *Coordinator) roomTimer(name string, fn func(ctx context.Context, room *model.Room) error) timer.Func {
	return func(h timer.Handle) {
		unlock := c.locks.Lock(h.Code)
		defer unlock()

		if !c.timers.Acquire(h) {
			return
		}

		ctx := context.Background()
		room, err := c.storage.GetRoom(ctx, h.Code)
		if err != nil {
			c.timers.Cancel(h.Code)
			if !errors.Is(err, model.ErrRoomNotFound) {
				c.logger.Error("timer could not load room",
					slog.String("room_code", string(h.Code)),
					slog.String("timer", name),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		if err := fn(ctx, room); err != nil {
			c.logger.Error("timer callback failed",
				slog.String("room_code", string(h.Code)),
				slog.String("timer", name),
				slog.String("error", err.Error()),
			)
		}
	}
}

func newPlayer(p model.Player, now time.Time) model.Player {
	if p.Name == "" {
		p.Name = string(p.ID)
	}
	return model.Player{
		ID:           p.ID,
		Name:         p.Name,
		Avatar:       p.Avatar,
		ConnectionID: p.ConnectionID,
		JoinedAt:     now,
	}
}

func waitingState() model.GameState {
	return model.GameState{
		Phase:   model.PhaseWaiting,
		Round:   1,
		Guesses: []model.Guess{},
	}
}

// CoordinatorInterface defines the operations exposed to the transport layer
type CoordinatorInterface interface {
	// Rooms
	CreateRoom(ctx context.Context, host model.Player, settings *model.Settings) (*model.Room, error)
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	UpdateSettings(ctx context.Context, code model.RoomCode, requester model.PlayerID, settings model.Settings) (*model.Room, error)
	CloseRoom(ctx context.Context, code model.RoomCode, requester model.PlayerID) error

	// Game flow
	StartGame(ctx context.Context, code model.RoomCode, requester model.PlayerID) error
	SelectWord(ctx context.Context, code model.RoomCode, requester model.PlayerID, word string) error
	SubmitGuess(ctx context.Context, code model.RoomCode, userID model.PlayerID, text string) (*model.GuessResult, error)
	Replay(ctx context.Context, code model.RoomCode, requester model.PlayerID) error

	// Players
	Join(ctx context.Context, code model.RoomCode, player model.Player) (*model.Room, error)
	Leave(ctx context.Context, code model.RoomCode, userID model.PlayerID) error
	ExitGame(ctx context.Context, code model.RoomCode, userID model.PlayerID) error
	Disconnect(ctx context.Context, code model.RoomCode, userID model.PlayerID, connectionID string) error
	BindConnection(ctx context.Context, code model.RoomCode, userID model.PlayerID, connectionID string) error
	Kick(ctx context.Context, code model.RoomCode, requester, target model.PlayerID) error
	Mute(ctx context.Context, code model.RoomCode, requester, target model.PlayerID, muted bool) error
}

var _ CoordinatorInterface = (*Coordinator)(nil)
