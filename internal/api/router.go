package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sketchgame/internal/api/handler"
	"github.com/mcoot/sketchgame/internal/api/middleware"
	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/services/session"
	"github.com/mcoot/sketchgame/internal/services/words"
	"github.com/mcoot/sketchgame/internal/web/realtime"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Coordinator    session.CoordinatorInterface
	WordService    words.ServiceInterface
	HubManager     *realtime.HubManager
	RealtimeConfig realtime.Config
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.Coordinator, cfg.WordService)
	gameHandler := handler.NewGameHandler(cfg.Coordinator)
	moderationHandler := handler.NewModerationHandler(cfg.Coordinator)
	realtimeHandler := handler.NewRealtimeHandler(cfg.Coordinator, cfg.HubManager, cfg.RealtimeConfig, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Open routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/themes", roomHandler.Themes).Methods(http.MethodGet)

	// Room routes (all require an identity)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(middleware.Identity())
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}", roomHandler.Close).Methods(http.MethodDelete)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/exit", roomHandler.Exit).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/settings", roomHandler.UpdateSettings).Methods(http.MethodPatch)

	// Game routes
	rooms.HandleFunc("/{code}/game", gameHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/word", gameHandler.SelectWord).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/guess", gameHandler.Guess).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/replay", gameHandler.Replay).Methods(http.MethodPost)

	// Moderation routes
	rooms.HandleFunc("/{code}/players/{player_id}/kick", moderationHandler.Kick).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/players/{player_id}/mute", moderationHandler.Mute).Methods(http.MethodPost)

	// Realtime routes
	rooms.HandleFunc("/{code}/events", realtimeHandler.Events).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/ws", realtimeHandler.Socket).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
