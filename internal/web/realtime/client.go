package realtime

import (
	"sync"
	"time"

	"github.com/mcoot/sketchgame/internal/model"
)

// Client is one connection watching a room
type Client struct {
	hub          *Hub
	playerID     model.PlayerID
	connectionID string
	connectedAt  time.Time

	mu     sync.Mutex
	send   chan Message
	closed bool
}

// NewClient creates a client for the hub. It is not registered yet.
func NewClient(hub *Hub, playerID model.PlayerID, connectionID string, bufferSize int) *Client {
	return &Client{
		hub:          hub,
		playerID:     playerID,
		connectionID: connectionID,
		connectedAt:  time.Now(),
		send:         make(chan Message, bufferSize),
	}
}

// PlayerID returns the player this connection belongs to
func (c *Client) PlayerID() model.PlayerID {
	return c.playerID
}

// ConnectionID returns the connection identifier
func (c *Client) ConnectionID() string {
	return c.connectionID
}

// RoomCode returns the room the client is watching
func (c *Client) RoomCode() model.RoomCode {
	return c.hub.roomCode
}

// Messages returns the outbound queue. It is closed when the hub drops the client.
func (c *Client) Messages() <-chan Message {
	return c.send
}

// enqueue queues a message without blocking. It returns false if the
// client is closed or its buffer is full.
func (c *Client) enqueue(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
