package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned to clients sending commands too quickly
var ErrRateLimited = errors.New("too many commands")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Upgrade switches the request to a WebSocket connection
func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// CommandHandler executes an inbound socket command for a client. The
// returned result, or the error message, is sent back as the ack.
type CommandHandler interface {
	HandleCommand(ctx context.Context, client *Client, event string, data json.RawMessage) (any, error)
}

// ServeWS pumps messages between the socket and the client until either
// side goes away. It blocks until the connection is finished. The caller
// registers the client and unregisters it afterwards.
func ServeWS(ctx context.Context, conn *websocket.Conn, client *Client, handler CommandHandler, cfg Config, logger *slog.Logger) {
	logger = logger.With(
		slog.String("room_code", string(client.RoomCode())),
		slog.String("player", string(client.playerID)),
	)

	stop := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writePump(conn, client, cfg, stop)
	}()

	readPump(ctx, conn, client, handler, cfg, logger)

	close(stop)
	<-writerDone
	_ = conn.Close()
}

func readPump(ctx context.Context, conn *websocket.Conn, client *Client, handler CommandHandler, cfg Config, logger *slog.Logger) {
	limiter := rate.NewLimiter(rate.Limit(cfg.CommandRate), cfg.CommandBurst)

	conn.SetReadLimit(cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		var frame Message
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("socket closed unexpectedly", slog.String("error", err.Error()))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(cfg.PongWait))

		var (
			result any
			err    error
		)
		if !limiter.Allow() {
			err = ErrRateLimited
		} else {
			result, err = handler.HandleCommand(ctx, client, frame.Event, frame.Data)
		}

		if err != nil {
			logger.Debug("socket command failed",
				slog.String("event", frame.Event),
				slog.String("error", err.Error()))
			result = ErrorResult{Error: err.Error()}
		}
		if frame.Ack == nil {
			continue
		}
		if result == nil {
			result = struct{}{}
		}
		ack, err := newAck(*frame.Ack, result)
		if err != nil {
			logger.Error("failed to encode ack", slog.String("error", err.Error()))
			continue
		}
		if !client.enqueue(ack) {
			logger.Warn("ack dropped", slog.String("event", frame.Event))
		}
	}
}

func writePump(conn *websocket.Conn, client *Client, cfg Config, stop <-chan struct{}) {
	ticker := time.NewTicker(cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				// Hub dropped the client
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				_ = conn.Close()
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				_ = conn.Close()
				return
			}

		case <-stop:
			return

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
