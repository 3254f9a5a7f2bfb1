package driven

import (
	"context"

	"github.com/worklens/worklens/internal/core/domain"
)

// IntegrationStore persists provider connections.
type IntegrationStore interface {
	// Save stores or updates an integration.
	Save(ctx context.Context, integration domain.Integration) error

	// Get retrieves the integration for (owner, provider) regardless of
	// its active flag, or domain.ErrNotFound.
	Get(ctx context.Context, owner string, provider domain.ProviderType) (*domain.Integration, error)

	// ListByOwner returns all integrations for an owner.
	ListByOwner(ctx context.Context, owner string) ([]domain.Integration, error)

	// ListOwners returns all owners with at least one active integration.
	ListOwners(ctx context.Context) ([]string, error)

	// Deactivate soft-disables an integration. The row is kept so
	// historical Contexts remain attributable.
	Deactivate(ctx context.Context, owner string, provider domain.ProviderType) error
}
