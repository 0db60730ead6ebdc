package sealer

import (
	"sync"

	"github.com/google/uuid"
)

// playerLocks serializes seals per player. Entries are reference-counted and
// removed once the last holder releases, so the map does not grow with the
// player population.
type playerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{
		locks: make(map[uuid.UUID]*playerLock),
	}
}

// acquire blocks until the player's lock is held and returns the release func
func (l *playerLocks) acquire(playerID uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[playerID]
	if !ok {
		entry = &playerLock{}
		l.locks[playerID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, playerID)
		}
		l.mu.Unlock()
	}
}
