// Package services: services/locks.go
package services

import "sync"

// Mutating operations on one tournament form a single logical writer:
// writes to the same tournament serialize here, writes to different
// tournaments proceed independently.
var (
	tournamentLocksMu sync.Mutex
	tournamentLocks   = make(map[string]*sync.Mutex)
)

// lockTournament returns the mutex guarding one tournament, creating it
// on first use.
func lockTournament(tournamentID string) *sync.Mutex {
	tournamentLocksMu.Lock()
	defer tournamentLocksMu.Unlock()

	mu, exists := tournamentLocks[tournamentID]
	if !exists {
		mu = &sync.Mutex{}
		tournamentLocks[tournamentID] = mu
	}
	return mu
}
