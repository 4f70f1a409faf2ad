package redis

import (
	"fmt"

	"github.com/mcoot/sketchgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "sketch"

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// themeKey returns the Redis key for a theme's word list
func themeKey(theme string) string {
	return fmt.Sprintf("%s:theme:%s", keyPrefix, theme)
}

// themesIndexKey returns the Redis key for the SET of known themes
func themesIndexKey() string {
	return fmt.Sprintf("%s:idx:themes", keyPrefix)
}
