package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/sketchgame/internal/api/apierr"
	"github.com/mcoot/sketchgame/internal/api/middleware"
	"github.com/mcoot/sketchgame/internal/api/request"
	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/session"
	"github.com/mcoot/sketchgame/internal/web/realtime"
)

// Inbound socket command names
const (
	CommandJoin       = "room:join"
	CommandLeave      = "room:leave"
	CommandStartGame  = "start-game"
	CommandSelectWord = "word-select"
	CommandGuess      = "guess"
	CommandMute       = "moderation:mute"
	CommandKick       = "moderation:kick"
	CommandReplay     = "replay"
	CommandExitGame   = "exit-game"
)

// RealtimeHandler serves the event stream endpoints and executes socket commands
type RealtimeHandler struct {
	coordinator session.CoordinatorInterface
	hubManager  *realtime.HubManager
	config      realtime.Config
	logger      *slog.Logger
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(coordinator session.CoordinatorInterface, hubManager *realtime.HubManager, config realtime.Config, logger *slog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		coordinator: coordinator,
		hubManager:  hubManager,
		config:      config,
		logger:      logger.With(slog.String("component", "realtime-handler")),
	}
}

// Events handles GET /api/v1/rooms/{code}/events as a server-sent event stream
func (h *RealtimeHandler) Events(w http.ResponseWriter, r *http.Request) {
	client, ok := h.connect(w, r)
	if !ok {
		return
	}
	defer h.disconnect(client)

	realtime.ServeSSE(w, r, client, h.config.PingPeriod)
}

// Socket handles GET /api/v1/rooms/{code}/ws as a WebSocket
func (h *RealtimeHandler) Socket(w http.ResponseWriter, r *http.Request) {
	if _, err := h.coordinator.GetRoom(r.Context(), roomCode(r)); err != nil {
		WriteError(w, err)
		return
	}

	conn, err := realtime.Upgrade(w, r)
	if err != nil {
		// The upgrader has already replied
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client, ok := h.connect(nil, r)
	if !ok {
		_ = conn.Close()
		return
	}
	defer h.disconnect(client)

	realtime.ServeWS(context.WithoutCancel(r.Context()), conn, client, h, h.config, h.logger)
}

// connect registers a client for the requesting user and binds it for
// private delivery if the user is in the room. A nil writer means the
// connection was already upgraded and errors can only be logged.
func (h *RealtimeHandler) connect(w http.ResponseWriter, r *http.Request) (*realtime.Client, bool) {
	userID := middleware.MustGetUserID(r.Context())
	code := roomCode(r)

	room, err := h.coordinator.GetRoom(r.Context(), code)
	if err != nil {
		if w != nil {
			WriteError(w, err)
		}
		return nil, false
	}

	client, ok := h.register(r.Context(), code, userID)
	if !ok {
		if w != nil {
			WriteError(w, model.ErrRoomNotFound)
		}
		return nil, false
	}

	if room.HasPlayer(userID) {
		h.bind(r.Context(), client)
	}
	return client, true
}

// register adds a client to the room's hub. A hub closed by the empty-hub
// sweep is replaced once, provided the room still exists.
func (h *RealtimeHandler) register(ctx context.Context, code model.RoomCode, userID model.PlayerID) (*realtime.Client, bool) {
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			if _, err := h.coordinator.GetRoom(ctx, code); err != nil {
				return nil, false
			}
		}
		hub := h.hubManager.GetOrCreateHub(code)
		client := realtime.NewClient(hub, userID, realtime.NewConnectionID(), h.config.SendBufferSize)
		if hub.Register(client) {
			return client, true
		}
	}
	return nil, false
}

func (h *RealtimeHandler) bind(ctx context.Context, client *realtime.Client) {
	err := h.coordinator.BindConnection(ctx, client.RoomCode(), client.PlayerID(), client.ConnectionID())
	if err != nil {
		h.logger.Warn("failed to bind connection",
			slog.String("room_code", string(client.RoomCode())),
			slog.String("player", string(client.PlayerID())),
			slog.String("error", err.Error()))
	}
}

// disconnect unregisters the client and removes its player unless they have
// moved to another connection
func (h *RealtimeHandler) disconnect(client *realtime.Client) {
	if hub := h.hubManager.GetHub(client.RoomCode()); hub != nil {
		hub.Unregister(client)
	}

	err := h.coordinator.Disconnect(context.Background(), client.RoomCode(), client.PlayerID(), client.ConnectionID())
	if err != nil && !errors.Is(err, model.ErrRoomNotFound) {
		h.logger.Warn("disconnect failed",
			slog.String("room_code", string(client.RoomCode())),
			slog.String("player", string(client.PlayerID())),
			slog.String("error", err.Error()))
	}
}

// HandleCommand executes an inbound socket command against the client's room
func (h *RealtimeHandler) HandleCommand(ctx context.Context, client *realtime.Client, event string, data json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, client, event, data)
	if err != nil {
		return nil, apierr.Public(err)
	}
	return result, nil
}

func (h *RealtimeHandler) dispatch(ctx context.Context, client *realtime.Client, event string, data json.RawMessage) (any, error) {
	code := client.RoomCode()
	userID := client.PlayerID()

	switch event {
	case CommandJoin:
		var req request.JoinRoomRequest
		if err := decodeData(data, &req); err != nil {
			return nil, err
		}
		room, err := h.coordinator.Join(ctx, code, model.Player{ID: userID, Name: req.Name, Avatar: req.Avatar})
		if err != nil {
			return nil, err
		}
		h.bind(ctx, client)
		return response.RoomResponse{Room: room}, nil

	case CommandLeave:
		return okOrError(h.coordinator.Leave(ctx, code, userID))

	case CommandExitGame:
		return okOrError(h.coordinator.ExitGame(ctx, code, userID))

	case CommandStartGame:
		return okOrError(h.coordinator.StartGame(ctx, code, userID))

	case CommandSelectWord:
		var req request.SelectWordRequest
		if err := decodeData(data, &req); err != nil {
			return nil, err
		}
		return okOrError(h.coordinator.SelectWord(ctx, code, userID, req.Word))

	case CommandGuess:
		var req request.GuessRequest
		if err := decodeData(data, &req); err != nil {
			return nil, err
		}
		result, err := h.coordinator.SubmitGuess(ctx, code, userID, req.Guess)
		if err != nil {
			return nil, err
		}
		return response.GuessFromModel(result), nil

	case CommandMute:
		var req request.TargetRequest
		if err := decodeData(data, &req); err != nil {
			return nil, err
		}
		muted := true
		if req.Muted != nil {
			muted = *req.Muted
		}
		return okOrError(h.coordinator.Mute(ctx, code, userID, model.PlayerID(req.UserID), muted))

	case CommandKick:
		var req request.TargetRequest
		if err := decodeData(data, &req); err != nil {
			return nil, err
		}
		return okOrError(h.coordinator.Kick(ctx, code, userID, model.PlayerID(req.UserID)))

	case CommandReplay:
		return okOrError(h.coordinator.Replay(ctx, code, userID))

	default:
		return nil, NewInvalidRequestError("unknown event " + event)
	}
}

func okOrError(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return response.OK, nil
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return NewInvalidRequestError("Invalid command data")
	}
	return nil
}

var _ realtime.CommandHandler = (*RealtimeHandler)(nil)
