package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Rooms are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	rooms  map[model.RoomCode]*model.Room
	themes map[string][]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:  make(map[model.RoomCode]*model.Room),
		themes: make(map[string][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

// RoomCount returns the number of stored rooms
func (s *Storage) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Word pool operations

func (s *Storage) GetThemeWords(ctx context.Context, theme string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	words, ok := s.themes[theme]
	if !ok || len(words) == 0 {
		return nil, model.ErrNoWords
	}
	return slices.Clone(words), nil
}

func (s *Storage) SaveThemeWords(ctx context.Context, theme string, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(words) == 0 {
		delete(s.themes, theme)
		return nil
	}
	s.themes[theme] = slices.Clone(words)
	return nil
}

func (s *Storage) ListThemes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	themes := make([]string, 0, len(s.themes))
	for theme := range s.themes {
		themes = append(themes, theme)
	}
	slices.Sort(themes)
	return themes, nil
}
