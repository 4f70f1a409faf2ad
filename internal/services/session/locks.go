package session

import (
	"sync"

	"github.com/mcoot/sketchgame/internal/model"
)

// roomLocks serializes work per room code. Entries are reference counted
// and dropped once nobody holds or waits on them.
type roomLocks struct {
	mu    sync.Mutex
	locks map[model.RoomCode]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[model.RoomCode]*roomLock)}
}

// Lock blocks until the room is free and returns the matching unlock
func (l *roomLocks) Lock(code model.RoomCode) func() {
	l.mu.Lock()
	rl, ok := l.locks[code]
	if !ok {
		rl = &roomLock{}
		l.locks[code] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()

	return func() {
		rl.mu.Unlock()

		l.mu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.locks, code)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of rooms currently locked or waited on
func (l *roomLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
