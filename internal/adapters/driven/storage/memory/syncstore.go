package memory

import (
	"context"
	"sync"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure SyncStateStore implements the interface.
var _ driven.SyncStateStore = (*SyncStateStore)(nil)

// SyncStateStore is an in-memory implementation of driven.SyncStateStore.
type SyncStateStore struct {
	mu     sync.RWMutex
	states map[string]domain.SyncState
}

// NewSyncStateStore creates a new in-memory sync state store.
func NewSyncStateStore() *SyncStateStore {
	return &SyncStateStore{
		states: make(map[string]domain.SyncState),
	}
}

// Save stores or updates sync state.
func (s *SyncStateStore) Save(_ context.Context, state domain.SyncState) error {
	if state.Owner == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.Owner] = state
	return nil
}

// Get retrieves sync state for an owner.
func (s *SyncStateStore) Get(_ context.Context, owner string) (*domain.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[owner]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}
