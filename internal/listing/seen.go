package listing

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// SeenSet tracks profile URLs already handed to the callback, across pages
// and, when seeded from a checkpoint, across runs.
type SeenSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewSeenSet creates a SeenSet with the given estimated capacity.
func NewSeenSet(estimatedCapacity int) *SeenSet {
	return &SeenSet{
		seen: make(map[string]struct{}, estimatedCapacity),
	}
}

// IsSeen returns true if the profile behind rawURL has been seen before.
func (d *SeenSet) IsSeen(rawURL string) bool {
	hash := hashKey(seenKey(rawURL))

	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.seen[hash]
	return ok
}

// MarkSeen marks a profile as seen and reports whether it was new.
func (d *SeenSet) MarkSeen(rawURL string) bool {
	hash := hashKey(seenKey(rawURL))

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[hash]; ok {
		return false
	}
	d.seen[hash] = struct{}{}
	return true
}

// Seed marks every URL as seen.
func (d *SeenSet) Seed(urls ...string) {
	for _, u := range urls {
		if u != "" {
			d.MarkSeen(u)
		}
	}
}

// Count returns the number of unique profiles seen.
func (d *SeenSet) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.seen)
}

func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:16])
}
