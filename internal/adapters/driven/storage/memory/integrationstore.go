package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure IntegrationStore implements the interface.
var _ driven.IntegrationStore = (*IntegrationStore)(nil)

// integrationKey identifies one integration row.
type integrationKey struct {
	owner    string
	provider domain.ProviderType
}

// IntegrationStore is an in-memory implementation of driven.IntegrationStore.
type IntegrationStore struct {
	mu           sync.RWMutex
	integrations map[integrationKey]domain.Integration
}

// NewIntegrationStore creates a new in-memory integration store.
func NewIntegrationStore() *IntegrationStore {
	return &IntegrationStore{
		integrations: make(map[integrationKey]domain.Integration),
	}
}

// Save stores or updates an integration, keyed by (owner, provider).
func (s *IntegrationStore) Save(_ context.Context, integration domain.Integration) error {
	if integration.ID == "" || integration.Owner == "" || !integration.Provider.IsValid() {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.integrations[integrationKey{integration.Owner, integration.Provider}] = integration
	return nil
}

// Get retrieves the integration for (owner, provider).
func (s *IntegrationStore) Get(
	_ context.Context, owner string, provider domain.ProviderType,
) (*domain.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	integration, ok := s.integrations[integrationKey{owner, provider}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &integration, nil
}

// ListByOwner returns all integrations for an owner.
func (s *IntegrationStore) ListByOwner(_ context.Context, owner string) ([]domain.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Integration
	for key, integration := range s.integrations {
		if key.owner == owner {
			result = append(result, integration)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Provider < result[j].Provider
	})
	return result, nil
}

// ListOwners returns all owners with at least one active integration.
func (s *IntegrationStore) ListOwners(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var owners []string
	for key, integration := range s.integrations {
		if integration.Active && !seen[key.owner] {
			seen[key.owner] = true
			owners = append(owners, key.owner)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

// Deactivate soft-disables an integration.
func (s *IntegrationStore) Deactivate(_ context.Context, owner string, provider domain.ProviderType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := integrationKey{owner, provider}
	integration, ok := s.integrations[key]
	if !ok {
		return domain.ErrNotFound
	}
	integration.Active = false
	s.integrations[key] = integration
	return nil
}
