package model

import (
	"slices"
	"time"
)

// RoomCode is a short human-shareable identifier for a room
type RoomCode string

// RoomStatus represents the lifecycle status of a room
type RoomStatus string

const (
	RoomStatusWaiting    RoomStatus = "waiting"
	RoomStatusInProgress RoomStatus = "in-progress"
	RoomStatusEnded      RoomStatus = "ended"
)

// Phase is the sub-state of an in-progress game
type Phase string

const (
	PhaseWaiting       Phase = "waiting"
	PhaseSelectingWord Phase = "selecting-word"
	PhaseDrawing       Phase = "drawing"
	PhaseRoundEnd      Phase = "round-end"
	PhaseEnded         Phase = "ended"
)

// Settings holds the host-configurable options for games in a room
type Settings struct {
	MaxRounds     int       `json:"maxRounds"`
	RoundTime     int       `json:"roundTime"` // seconds
	WordCount     int       `json:"wordCount"`
	HintIntervals []float64 `json:"hintIntervals"` // fractions of RoundTime
	Theme         string    `json:"theme"`
	MaxPlayers    int       `json:"maxPlayers"`
	AllowUndo     bool      `json:"allowUndo"`
	AllowChat     bool      `json:"allowChat"`
	ShowTimerBar  bool      `json:"showTimerBar"`
}

// DefaultTheme is the word pool used when a room does not pick one
const DefaultTheme = "default"

// DefaultSettings returns the default room settings
func DefaultSettings() Settings {
	return Settings{
		MaxRounds:     3,
		RoundTime:     80,
		WordCount:     3,
		HintIntervals: []float64{0.5, 0.25},
		Theme:         DefaultTheme,
		MaxPlayers:    8,
		AllowUndo:     true,
		AllowChat:     true,
		ShowTimerBar:  true,
	}
}

// Validate checks the settings are within playable bounds
func (s Settings) Validate() error {
	if s.MaxRounds < 1 || s.MaxRounds > 10 {
		return ErrInvalidSettings
	}
	if s.RoundTime < 15 || s.RoundTime > 240 {
		return ErrInvalidSettings
	}
	if s.WordCount < 1 || s.WordCount > 5 {
		return ErrInvalidSettings
	}
	if s.MaxPlayers < 2 || s.MaxPlayers > 12 {
		return ErrInvalidSettings
	}
	for _, f := range s.HintIntervals {
		if f <= 0 || f >= 1 {
			return ErrInvalidSettings
		}
	}
	return nil
}

// GameState is the per-round state of an in-progress game
type GameState struct {
	Phase           Phase    `json:"phase"`
	Round           int      `json:"round"`
	DrawingPlayerID PlayerID `json:"drawingPlayerId,omitempty"`
	CurrentWord     string   `json:"currentWord,omitempty"`
	WordChoices     []string `json:"wordChoices,omitempty"`
	Guesses         []Guess  `json:"guesses"`
	Hint            string   `json:"hint"`
	HintLevel       int      `json:"hintLevel"`
	RevealedIndices []int    `json:"revealedIndices,omitempty"`
	Timer           int      `json:"timer"` // seconds remaining in the current phase

	// NextDrawerID overrides the normal rotation for the next round. It is
	// set when a drawer leaves mid-round and consumed when play resumes.
	NextDrawerID PlayerID `json:"nextDrawerId,omitempty"`
}

// Room is one game's isolated state
type Room struct {
	Code         RoomCode   `json:"code"`
	Players      []Player   `json:"players"`
	Status       RoomStatus `json:"status"`
	CurrentRound int        `json:"currentRound"`
	DrawerIndex  int        `json:"drawerIndex"`
	PlayerOrder  []PlayerID `json:"playerOrder"`
	Settings     Settings   `json:"settings"`
	GameState    GameState  `json:"gameState"`
	BannedIDs    []PlayerID `json:"bannedIds,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// GetPlayer returns the player with the given ID, or nil if not present
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// HasPlayer returns true if the player is present in the room
func (r *Room) HasPlayer(id PlayerID) bool {
	return r.GetPlayer(id) != nil
}

// GetHost returns the current host, or nil if the room is empty
func (r *Room) GetHost() *Player {
	for i := range r.Players {
		if r.Players[i].IsHost {
			return &r.Players[i]
		}
	}
	return nil
}

// IsHost returns true if the given player is the room's host
func (r *Room) IsHost(id PlayerID) bool {
	host := r.GetHost()
	return host != nil && host.ID == id
}

// CurrentDrawer returns the drawing player, or nil if there is none
func (r *Room) CurrentDrawer() *Player {
	if r.GameState.DrawingPlayerID == "" {
		return nil
	}
	return r.GetPlayer(r.GameState.DrawingPlayerID)
}

// IsBanned returns true if the player was kicked from this room
func (r *Room) IsBanned(id PlayerID) bool {
	return slices.Contains(r.BannedIDs, id)
}

// RemovePlayer removes a player and returns the removed copy
func (r *Room) RemovePlayer(id PlayerID) (Player, bool) {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return p, true
		}
	}
	return Player{}, false
}

// EligibleGuessers returns present players who may guess this round:
// not the drawer and not waiting for the next round.
func (r *Room) EligibleGuessers() []*Player {
	var out []*Player
	for i := range r.Players {
		p := &r.Players[i]
		if p.ID == r.GameState.DrawingPlayerID || p.IsPendingJoin() || p.IsKicked {
			continue
		}
		out = append(out, p)
	}
	return out
}

// HasGuessedCorrectly returns true if the player has a correct guess this round
func (r *Room) HasGuessedCorrectly(id PlayerID) bool {
	for _, g := range r.GameState.Guesses {
		if g.UserID == id && g.Correct && !g.IsDrawer {
			return true
		}
	}
	return false
}

// CorrectGuesserCount returns the number of distinct players with a correct guess this round
func (r *Room) CorrectGuesserCount() int {
	seen := make(map[PlayerID]struct{})
	for _, g := range r.GameState.Guesses {
		if g.Correct && !g.IsDrawer {
			seen[g.UserID] = struct{}{}
		}
	}
	return len(seen)
}

// AllEligibleGuessed returns true if every eligible guesser has a correct guess.
// A round with no eligible guessers never ends early.
func (r *Room) AllEligibleGuessed() bool {
	eligible := r.EligibleGuessers()
	if len(eligible) == 0 {
		return false
	}
	for _, p := range eligible {
		if !r.HasGuessedCorrectly(p.ID) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	c := *r
	c.Players = slices.Clone(r.Players)
	c.PlayerOrder = slices.Clone(r.PlayerOrder)
	c.BannedIDs = slices.Clone(r.BannedIDs)
	c.Settings.HintIntervals = slices.Clone(r.Settings.HintIntervals)
	c.GameState.WordChoices = slices.Clone(r.GameState.WordChoices)
	c.GameState.Guesses = slices.Clone(r.GameState.Guesses)
	c.GameState.RevealedIndices = slices.Clone(r.GameState.RevealedIndices)
	return &c
}
