package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sketchgame/internal/api/middleware"
	"github.com/mcoot/sketchgame/internal/api/request"
	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/session"
	"github.com/mcoot/sketchgame/internal/services/words"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	coordinator session.CoordinatorInterface
	words       words.ServiceInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(coordinator session.CoordinatorInterface, words words.ServiceInterface) *RoomHandler {
	return &RoomHandler{
		coordinator: coordinator,
		words:       words,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.CreateRoomRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	var settings *model.Settings
	if req.Settings != nil {
		s := req.Settings.Apply(model.DefaultSettings())
		settings = &s
	}

	host := model.Player{ID: userID, Name: req.Name, Avatar: req.Avatar}
	room, err := h.coordinator.CreateRoom(r.Context(), host, settings)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomResponse{Room: room})
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.coordinator.GetRoom(r.Context(), roomCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomResponse{Room: room})
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.JoinRoomRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.coordinator.Join(r.Context(), roomCode(r), model.Player{ID: userID, Name: req.Name, Avatar: req.Avatar})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomResponse{Room: room})
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	if err := h.coordinator.Leave(r.Context(), roomCode(r), userID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Exit handles POST /api/v1/rooms/{code}/exit
func (h *RoomHandler) Exit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	if err := h.coordinator.ExitGame(r.Context(), roomCode(r), userID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdateSettings handles PATCH /api/v1/rooms/{code}/settings
func (h *RoomHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	code := roomCode(r)

	var req request.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	current, err := h.coordinator.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.coordinator.UpdateSettings(r.Context(), code, userID, req.Apply(current.Settings))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomResponse{Room: room})
}

// Close handles DELETE /api/v1/rooms/{code}
func (h *RoomHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	if err := h.coordinator.CloseRoom(r.Context(), roomCode(r), userID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Themes handles GET /api/v1/themes
func (h *RoomHandler) Themes(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.ThemesResponse{Themes: h.words.Themes()})
}

func roomCode(r *http.Request) model.RoomCode {
	return model.RoomCode(mux.Vars(r)["code"])
}

// decodeOptional decodes a JSON body, allowing it to be empty
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return NewInvalidRequestError("Invalid request body")
}
