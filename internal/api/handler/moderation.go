package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sketchgame/internal/api/middleware"
	"github.com/mcoot/sketchgame/internal/api/request"
	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/session"
)

// ModerationHandler handles host moderation endpoints
type ModerationHandler struct {
	coordinator session.CoordinatorInterface
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(coordinator session.CoordinatorInterface) *ModerationHandler {
	return &ModerationHandler{coordinator: coordinator}
}

// Kick handles POST /api/v1/rooms/{code}/players/{player_id}/kick
func (h *ModerationHandler) Kick(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	if err := h.coordinator.Kick(r.Context(), roomCode(r), userID, targetID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// Mute handles POST /api/v1/rooms/{code}/players/{player_id}/mute.
// An empty body mutes the player.
func (h *ModerationHandler) Mute(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.MuteRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	muted := true
	if req.Muted != nil {
		muted = *req.Muted
	}

	if err := h.coordinator.Mute(r.Context(), roomCode(r), userID, targetID(r), muted); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

func targetID(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["player_id"])
}
