// Package presence tracks which users have recently made authenticated
// requests. The tracker is created once at startup and mutated only through
// Touch and Remove. It is informational only: authorization decisions always
// re-derive from the durable store, never from this map.
package presence

import (
	"sync"
	"time"
)

// Tracker records the last-seen time per user id
type Tracker struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewTracker builds an empty tracker
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]time.Time)}
}

// Touch records activity for a user
func (t *Tracker) Touch(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[userID] = time.Now()
}

// Remove forgets a user, e.g. after account deletion
func (t *Tracker) Remove(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.seen, userID)
}

// Active returns the ids of users seen within the given window
func (t *Tracker) Active(window time.Duration) []string {
	cutoff := time.Now().Add(-window)
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.seen))
	for id, at := range t.seen {
		if at.After(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}
