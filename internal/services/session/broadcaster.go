package session

import "github.com/mcoot/sketchgame/internal/model"

// Broadcaster fans events out to the connections watching a room
type Broadcaster interface {
	// Broadcast sends the event to every connection in the room
	Broadcast(code model.RoomCode, event model.Event)

	// SendTo delivers the event to a single connection. It returns false if
	// the connection is not known to the room.
	SendTo(code model.RoomCode, connectionID string, event model.Event) bool

	// Connected reports whether the connection is currently in the room
	Connected(code model.RoomCode, connectionID string) bool

	// CloseRoom disconnects every connection in the room
	CloseRoom(code model.RoomCode)
}
