package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/sketchgame/internal/api/middleware"
	"github.com/mcoot/sketchgame/internal/api/request"
	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/services/session"
)

// GameHandler handles game flow endpoints
type GameHandler struct {
	coordinator session.CoordinatorInterface
}

// NewGameHandler creates a new game handler
func NewGameHandler(coordinator session.CoordinatorInterface) *GameHandler {
	return &GameHandler{coordinator: coordinator}
}

// Start handles POST /api/v1/rooms/{code}/game
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	if err := h.coordinator.StartGame(r.Context(), roomCode(r), userID); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// SelectWord handles POST /api/v1/rooms/{code}/game/word
func (h *GameHandler) SelectWord(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.SelectWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Word == "" {
		WriteError(w, NewInvalidRequestError("word is required"))
		return
	}

	if err := h.coordinator.SelectWord(r.Context(), roomCode(r), userID, req.Word); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// Guess handles POST /api/v1/rooms/{code}/game/guess
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	result, err := h.coordinator.SubmitGuess(r.Context(), roomCode(r), userID, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessFromModel(result))
}

// Replay handles POST /api/v1/rooms/{code}/replay
func (h *GameHandler) Replay(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	if err := h.coordinator.Replay(r.Context(), roomCode(r), userID); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}
