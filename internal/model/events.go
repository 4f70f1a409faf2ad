package model

import (
	"cmp"
	"slices"
	"time"
)

// EventType identifies the type of event; values are the stable wire names
type EventType string

const (
	// Game flow events
	EventRoundStart    EventType = "round-start"
	EventWordSelected  EventType = "word-selected"
	EventGuessResult   EventType = "guess-result"
	EventTimerUpdate   EventType = "timer-update"
	EventHintUpdate    EventType = "hint-update"
	EventRoundEnd      EventType = "round-end"
	EventForceEndRound EventType = "force-end-round"
	EventGameEnd       EventType = "game-end"

	// Room events
	EventRoomUpdate     EventType = "room:update"
	EventReplay         EventType = "replay"
	EventRoomClosed     EventType = "room-closed"
	EventModerationMute EventType = "moderation:mute"
	EventModerationKick EventType = "moderation:kick"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	RoomCode  RoomCode
	Payload   any // Type-specific data
}

// RoundStartPayload contains data for round start events
type RoundStartPayload struct {
	DrawerID    PlayerID   `json:"drawerId"`
	WordChoices []string   `json:"wordChoices"`
	Round       int        `json:"round"`
	MaxRounds   int        `json:"maxRounds"`
	PlayerOrder []PlayerID `json:"playerOrder"`
}

// WordSelectedPayload contains data for word selected events.
// Word is delivered to everyone; only the drawer's client reveals it.
type WordSelectedPayload struct {
	MaskedWord   string   `json:"maskedWord"`
	RoundTime    int      `json:"roundTime"`
	AutoSelected bool     `json:"autoSelected"`
	Word         string   `json:"word"`
	DrawerID     PlayerID `json:"drawerId"`
}

// GuessResultPayload contains data for guess result events.
// IsClose is only meant to be shown to ShowCloseToUser.
type GuessResultPayload struct {
	UserID          PlayerID `json:"userId"`
	Guess           string   `json:"guess"`
	Correct         bool     `json:"correct"`
	IsClose         bool     `json:"isClose"`
	Score           int      `json:"score"`
	ShowCloseToUser PlayerID `json:"showCloseToUser"`
}

// TimerUpdatePayload contains data for timer update events
type TimerUpdatePayload struct {
	TimeLeft int `json:"timeLeft"`
}

// HintUpdatePayload contains data for hint update events
type HintUpdatePayload struct {
	Hint string `json:"hint"`
}

// PlayerScore is a player's running total
type PlayerScore struct {
	UserID PlayerID `json:"userId"`
	Name   string   `json:"name"`
	Score  int      `json:"score"`
	Avatar string   `json:"avatar,omitempty"`
}

// RoundEndPayload contains data for round end events
type RoundEndPayload struct {
	Word    string        `json:"word"`
	Scores  []PlayerScore `json:"scores"`
	Guesses []Guess       `json:"guesses"`
}

// ForceEndRoundPayload contains data for a round voided by the drawer leaving
type ForceEndRoundPayload struct {
	Reason       string        `json:"reason"`
	Word         string        `json:"word"`
	Scores       []PlayerScore `json:"scores"`
	Guesses      []Guess       `json:"guesses"`
	NextDrawerID PlayerID      `json:"nextDrawerId,omitempty"`
}

// GameEndPayload contains data for game end events
type GameEndPayload struct {
	Leaderboard []PlayerScore `json:"leaderboard"`
}

// RoomUpdatePayload carries the full room snapshot
type RoomUpdatePayload struct {
	Room *Room `json:"room"`
}

// ReplayPayload signals the room was reset for another game
type ReplayPayload struct {
	Code RoomCode `json:"code"`
}

// RoomClosedPayload signals the room was torn down
type RoomClosedPayload struct {
	Code   RoomCode `json:"code"`
	Reason string   `json:"reason"`
}

// ModerationPayload contains data for mute and kick events
type ModerationPayload struct {
	UserID PlayerID `json:"userId"`
	Muted  bool     `json:"muted,omitempty"`
}

// Scores returns every player's running total in join order
func (r *Room) Scores() []PlayerScore {
	scores := make([]PlayerScore, len(r.Players))
	for i, p := range r.Players {
		scores[i] = PlayerScore{UserID: p.ID, Name: p.Name, Score: p.Score, Avatar: p.Avatar}
	}
	return scores
}

// Leaderboard returns players sorted by score descending; ties keep join order
func (r *Room) Leaderboard() []PlayerScore {
	scores := r.Scores()
	slices.SortStableFunc(scores, func(a, b PlayerScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scores
}

// Snapshot returns a copy of the room that is safe to send to every player.
// The current word is withheld.
func (r *Room) Snapshot() *Room {
	c := r.Clone()
	c.GameState.CurrentWord = ""
	c.GameState.RevealedIndices = nil
	for i := range c.Players {
		c.Players[i].ConnectionID = ""
	}
	return c
}
