package model

import "time"

// Guess is one guess attempt recorded during a round
type Guess struct {
	UserID    PlayerID  `json:"userId"`
	Text      string    `json:"text"`
	Correct   bool      `json:"correct"`
	IsClose   bool      `json:"isClose"`
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`

	// IsDrawer marks the synthetic entry appended at round end that carries
	// the drawer's bonus for the round summary.
	IsDrawer bool `json:"isDrawer,omitempty"`
}

// GuessResult is returned to the guessing player
type GuessResult struct {
	Correct bool `json:"correct"`
	IsClose bool `json:"isClose"`
	Score   int  `json:"score"`
}
