package realtime

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/sketchgame/internal/model"
)

// Broadcaster delivers session events to the clients watching a room
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "broadcaster")),
	}
}

// Broadcast sends the event to every client in the room
func (b *Broadcaster) Broadcast(code model.RoomCode, event model.Event) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return
	}
	msg, ok := b.encode(event)
	if !ok {
		return
	}
	hub.Broadcast(msg)
}

// SendTo sends the event to a single connection in the room
func (b *Broadcaster) SendTo(code model.RoomCode, connectionID string, event model.Event) bool {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return false
	}
	msg, ok := b.encode(event)
	if !ok {
		return false
	}
	return hub.SendTo(connectionID, msg)
}

// Connected reports whether the connection is registered with the room's hub
func (b *Broadcaster) Connected(code model.RoomCode, connectionID string) bool {
	hub := b.hubManager.GetHub(code)
	return hub != nil && hub.HasConnection(connectionID)
}

// CloseRoom disconnects every client in the room
func (b *Broadcaster) CloseRoom(code model.RoomCode) {
	b.hubManager.RemoveHub(code)
}

func (b *Broadcaster) encode(event model.Event) (Message, bool) {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		b.logger.Error("failed to encode event",
			slog.String("room_code", string(event.RoomCode)),
			slog.String("event", string(event.Type)),
			slog.String("error", err.Error()))
		return Message{}, false
	}
	return Message{Event: string(event.Type), Data: data}, true
}
