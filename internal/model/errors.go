package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyJoined   = errors.New("player has already joined this room")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerBanned    = errors.New("player was kicked from this room")
	ErrForbidden       = errors.New("only the host can perform this action")
	ErrInvalidSettings = errors.New("invalid room settings")
	ErrGameInProgress  = errors.New("game is in progress")

	// Game errors
	ErrInsufficientPlayers = errors.New("at least 2 players are needed to start")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrInvalidWord         = errors.New("word was not one of the offered choices")
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrWrongPhase          = errors.New("action not allowed in the current phase")
	ErrDrawerCannotGuess   = errors.New("drawer cannot guess")
	ErrAlreadyGuessed      = errors.New("already guessed the word this round")
	ErrPlayerPending       = errors.New("player joins at the start of the next round")

	// Word pool errors
	ErrNoWords = errors.New("no words available for theme")
)
