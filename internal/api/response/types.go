package response

import "github.com/mcoot/sketchgame/internal/model"

// RoomResponse wraps a room snapshot
type RoomResponse struct {
	Room *model.Room `json:"room"`
}

// SuccessResponse acknowledges an operation without a result
type SuccessResponse struct {
	Success bool `json:"success"`
}

// OK is the SuccessResponse for a completed operation
var OK = SuccessResponse{Success: true}

// GuessResponse is the result of a guess as seen by the guesser
type GuessResponse struct {
	Correct bool `json:"correct"`
	IsClose bool `json:"isClose"`
	Score   int  `json:"score"`
}

// GuessFromModel converts a model.GuessResult
func GuessFromModel(r *model.GuessResult) GuessResponse {
	return GuessResponse{
		Correct: r.Correct,
		IsClose: r.IsClose,
		Score:   r.Score,
	}
}

// ThemesResponse lists the available word themes
type ThemesResponse struct {
	Themes []string `json:"themes"`
}

// HealthResponse reports server health
type HealthResponse struct {
	Status string `json:"status"`
}
