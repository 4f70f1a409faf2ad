package session

import "time"

// Config holds the fixed game timings
type Config struct {
	// SelectionWindow is how long the drawer has to pick a word before one is picked for them
	SelectionWindow time.Duration
	// RoundEndDelay is the pause between a round ending and the next one starting
	RoundEndDelay time.Duration
	// TickInterval is the period of the drawing-phase countdown
	TickInterval time.Duration
	// MinPlayers is the smallest room that can start a game
	MinPlayers int
}

// DefaultConfig returns the standard game timings
func DefaultConfig() Config {
	return Config{
		SelectionWindow: 10 * time.Second,
		RoundEndDelay:   4 * time.Second,
		TickInterval:    time.Second,
		MinPlayers:      2,
	}
}
