package model

import "time"

// PlayerID is the opaque, stable identity a client presents (not a session id)
type PlayerID string

// Player represents a participant in a room
type Player struct {
	ID     PlayerID `json:"userId"`
	Name   string   `json:"name"`
	Avatar string   `json:"avatar,omitempty"`
	Score  int      `json:"score"`

	IsHost    bool `json:"isHost"`
	IsDrawing bool `json:"isDrawing"`
	IsMuted   bool `json:"isMuted"`
	IsKicked  bool `json:"isKicked"`

	// Pending and NextRoundPending mark a late joiner that sits out the
	// current round. Both are cleared when the next round starts.
	Pending          bool `json:"pending"`
	NextRoundPending bool `json:"nextRoundPending"`

	// ConnectionID binds the player to a live connection for private delivery.
	// Empty when the player has no connection.
	ConnectionID string `json:"connectionId,omitempty"`

	JoinedAt time.Time `json:"joinedAt"`
}

// IsPendingJoin returns true if the player joined mid-round and has not been activated yet
func (p *Player) IsPendingJoin() bool {
	return p.Pending || p.NextRoundPending
}

// Activate clears the late-join flags and resets the score
func (p *Player) Activate() {
	p.Pending = false
	p.NextRoundPending = false
	p.Score = 0
}
