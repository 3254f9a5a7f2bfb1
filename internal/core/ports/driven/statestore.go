package driven

import "time"

// StateTokenStore holds short-lived OAuth state tokens. Entries expire on
// their own; the store is injected into the HTTP adapter rather than living
// in a process-global map, so instances can expire state independently.
type StateTokenStore interface {
	// Put stores a state token with its pending connect metadata.
	Put(token string, value StateToken, ttl time.Duration)

	// Take retrieves and removes a state token. Second return is false
	// when the token is unknown or expired.
	Take(token string) (StateToken, bool)
}

// StateToken is the pending connect request bound to an OAuth state value.
type StateToken struct {
	Owner    string
	Provider string
}
