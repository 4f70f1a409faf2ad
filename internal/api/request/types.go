package request

import "github.com/mcoot/sketchgame/internal/model"

// Settings is the room settings payload. Omitted fields keep their current
// value, or the default for a new room.
type Settings struct {
	MaxRounds     *int      `json:"maxRounds,omitempty"`
	RoundTime     *int      `json:"roundTime,omitempty"`
	WordCount     *int      `json:"wordCount,omitempty"`
	HintIntervals []float64 `json:"hintIntervals,omitempty"`
	Theme         *string   `json:"theme,omitempty"`
	MaxPlayers    *int      `json:"maxPlayers,omitempty"`
	AllowUndo     *bool     `json:"allowUndo,omitempty"`
	AllowChat     *bool     `json:"allowChat,omitempty"`
	ShowTimerBar  *bool     `json:"showTimerBar,omitempty"`
}

// Apply overlays the provided fields onto base
func (s Settings) Apply(base model.Settings) model.Settings {
	if s.MaxRounds != nil {
		base.MaxRounds = *s.MaxRounds
	}
	if s.RoundTime != nil {
		base.RoundTime = *s.RoundTime
	}
	if s.WordCount != nil {
		base.WordCount = *s.WordCount
	}
	if s.HintIntervals != nil {
		base.HintIntervals = s.HintIntervals
	}
	if s.Theme != nil {
		base.Theme = *s.Theme
	}
	if s.MaxPlayers != nil {
		base.MaxPlayers = *s.MaxPlayers
	}
	if s.AllowUndo != nil {
		base.AllowUndo = *s.AllowUndo
	}
	if s.AllowChat != nil {
		base.AllowChat = *s.AllowChat
	}
	if s.ShowTimerBar != nil {
		base.ShowTimerBar = *s.ShowTimerBar
	}
	return base
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Name     string    `json:"name,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// SelectWordRequest is the request body for picking the word to draw
type SelectWordRequest struct {
	Word string `json:"word"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	Guess string `json:"guess"`
}

// MuteRequest is the request body for muting or unmuting a player
type MuteRequest struct {
	Muted *bool `json:"muted,omitempty"`
}

// TargetRequest names the player a socket moderation command applies to
type TargetRequest struct {
	UserID string `json:"userId"`
	Muted  *bool  `json:"muted,omitempty"`
}
