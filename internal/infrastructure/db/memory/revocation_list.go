package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// RevocationList keeps revoked token ids until they would have expired.
type RevocationList struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{expires: make(map[string]time.Time)}
}

var _ ports.RevocationList = (*RevocationList)(nil)

func (r *RevocationList) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := time.Now()
	for id, exp := range r.expires {
		if ts.After(exp) {
			delete(r.expires, id)
		}
	}
	r.expires[tokenID] = ts.Add(ttl)
	return nil
}

func (r *RevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.expires[tokenID]
	return ok && time.Now().Before(exp), nil
}
