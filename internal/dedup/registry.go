// Package dedup tracks which destination path first claimed each content
// digest.
//
// The registry is the engine's single point of cross-worker agreement on
// canonical files: claims are atomic check-and-insert operations, so exactly
// one of any number of racing workers wins a digest and every loser learns
// the winning path. Entries are never updated or removed once set.
package dedup

import "sync"

// Registry maps content digests to the canonical destination that first
// claimed them. Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]string)}
}

// Claim attempts to register candidate as the canonical destination for
// digest. The first caller for a digest wins and gets accepted=true; later
// callers get accepted=false together with the existing canonical path.
// The check and insert happen under one lock acquisition.
func (r *Registry) Claim(digest, candidate string) (canonical string, accepted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[digest]; ok {
		return existing, false
	}
	r.entries[digest] = candidate
	return candidate, true
}

// Len reports how many digests have been claimed.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
