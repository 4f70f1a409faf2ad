package storage

import (
	"context"

	"github.com/mcoot/sketchgame/internal/model"
)

// Storage defines the interface for data persistence.
// Rooms follow load, mutate, save: there are no transactions and the last
// write to a room wins.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// Word pool operations
	GetThemeWords(ctx context.Context, theme string) ([]string, error)
	SaveThemeWords(ctx context.Context, theme string, words []string) error
	ListThemes(ctx context.Context) ([]string, error)
}
