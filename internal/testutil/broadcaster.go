package testutil

import (
	"sync"

	"github.com/mcoot/sketchgame/internal/model"
)

// SentEvent is an event delivered to a single connection
type SentEvent struct {
	ConnectionID string
	Event        model.Event
}

// RecordingBroadcaster records everything sent through it.
// Connections listed as unreachable are not Connected and make SendTo fail.
type RecordingBroadcaster struct {
	mu          sync.Mutex
	broadcasts  []model.Event
	sent        []SentEvent
	closed      []model.RoomCode
	unreachable map[string]bool
}

// NewRecordingBroadcaster creates an empty RecordingBroadcaster
func NewRecordingBroadcaster() *RecordingBroadcaster {
	return &RecordingBroadcaster{unreachable: make(map[string]bool)}
}

func (b *RecordingBroadcaster) Broadcast(code model.RoomCode, event model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broadcasts = append(b.broadcasts, event)
}

func (b *RecordingBroadcaster) SendTo(code model.RoomCode, connectionID string, event model.Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unreachable[connectionID] {
		return false
	}
	b.sent = append(b.sent, SentEvent{ConnectionID: connectionID, Event: event})
	return true
}

func (b *RecordingBroadcaster) Connected(code model.RoomCode, connectionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.unreachable[connectionID]
}

func (b *RecordingBroadcaster) CloseRoom(code model.RoomCode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = append(b.closed, code)
}

// SetUnreachable drops the connection from the room
func (b *RecordingBroadcaster) SetUnreachable(connectionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unreachable[connectionID] = true
}

// Broadcasts returns every broadcast event in order
func (b *RecordingBroadcaster) Broadcasts() []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Event, len(b.broadcasts))
	copy(out, b.broadcasts)
	return out
}

// OfType returns the broadcast events of the given type in order
func (b *RecordingBroadcaster) OfType(t model.EventType) []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Event
	for _, e := range b.broadcasts {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent broadcast of the given type
func (b *RecordingBroadcaster) Last(t model.EventType) (model.Event, bool) {
	events := b.OfType(t)
	if len(events) == 0 {
		return model.Event{}, false
	}
	return events[len(events)-1], true
}

// Types returns the types of every broadcast event in order
func (b *RecordingBroadcaster) Types() []model.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.EventType, len(b.broadcasts))
	for i, e := range b.broadcasts {
		out[i] = e.Type
	}
	return out
}

// Sent returns every event delivered to a single connection
func (b *RecordingBroadcaster) Sent() []SentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]SentEvent, len(b.sent))
	copy(out, b.sent)
	return out
}

// Closed returns the rooms that were closed
func (b *RecordingBroadcaster) Closed() []model.RoomCode {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.RoomCode, len(b.closed))
	copy(out, b.closed)
	return out
}

// Reset forgets everything recorded so far
func (b *RecordingBroadcaster) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broadcasts = nil
	b.sent = nil
	b.closed = nil
}
