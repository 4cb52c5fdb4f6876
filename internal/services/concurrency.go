package services

import (
	"sync"
	"time"
)

// ownerGuard enforces one in-flight sync per owner. A second sync request
// while a job is running is rejected instead of queued; the stale timeout
// releases owners whose process died without clearing the slot.
type ownerGuard struct {
	mu           sync.Mutex
	active       map[string]time.Time
	staleTimeout time.Duration
}

const defaultStaleTimeout = 30 * time.Minute

func newOwnerGuard(staleTimeout time.Duration) *ownerGuard {
	if staleTimeout <= 0 {
		staleTimeout = defaultStaleTimeout
	}
	return &ownerGuard{
		active:       make(map[string]time.Time),
		staleTimeout: staleTimeout,
	}
}

// TryAcquire claims the owner's sync slot. It returns false while another
// sync for the same owner is still running.
func (g *ownerGuard) TryAcquire(ownerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if startedAt, ok := g.active[ownerID]; ok {
		if time.Since(startedAt) < g.staleTimeout {
			return false
		}
	}
	g.active[ownerID] = time.Now()
	return true
}

// Release frees the owner's sync slot
func (g *ownerGuard) Release(ownerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, ownerID)
}
