package sealer

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlayerLocks_SerializesSamePlayer(t *testing.T) {
	locks := newPlayerLocks()
	playerID := uuid.New()

	const workers = 8
	const iterations = 50

	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := locks.acquire(playerID)
				counter++
				unlock()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, workers*iterations, counter)
}

func TestPlayerLocks_ReleasesEntries(t *testing.T) {
	locks := newPlayerLocks()

	unlockA := locks.acquire(uuid.New())
	unlockB := locks.acquire(uuid.New())
	unlockA()
	unlockB()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}

func TestPlayerLocks_IndependentPlayersDoNotBlock(t *testing.T) {
	locks := newPlayerLocks()

	unlockA := locks.acquire(uuid.New())
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.acquire(uuid.New())
		unlockB()
		close(done)
	}()

	<-done
}
