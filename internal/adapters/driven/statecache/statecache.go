// Package statecache provides a TTL-bounded store for pending OAuth state
// tokens, backed by go-cache.
package statecache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/worklens/worklens/internal/core/ports/driven"
)

// DefaultTTL is how long a pending connect attempt stays valid.
const DefaultTTL = 10 * time.Minute

// cleanupInterval is how often expired entries are purged.
const cleanupInterval = time.Minute

// Ensure Store implements the interface.
var _ driven.StateTokenStore = (*Store)(nil)

// Store holds OAuth state tokens with automatic expiry.
type Store struct {
	cache *gocache.Cache
}

// New creates a state token store.
func New() *Store {
	return &Store{
		cache: gocache.New(DefaultTTL, cleanupInterval),
	}
}

// Put stores a state token with its pending connect metadata.
func (s *Store) Put(token string, value driven.StateToken, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.cache.Set(token, value, ttl)
}

// Take retrieves and removes a state token. A token can be taken once;
// replayed callbacks miss.
func (s *Store) Take(token string) (driven.StateToken, bool) {
	raw, found := s.cache.Get(token)
	if !found {
		return driven.StateToken{}, false
	}
	s.cache.Delete(token)

	value, ok := raw.(driven.StateToken)
	return value, ok
}
