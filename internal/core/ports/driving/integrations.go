package driving

import (
	"context"

	"github.com/worklens/worklens/internal/core/domain"
)

// IntegrationService manages provider connections for an owner.
type IntegrationService interface {
	// List returns the owner's integrations with tokens redacted.
	List(ctx context.Context, owner string) ([]domain.Integration, error)

	// Connect stores a freshly authorised integration, replacing any
	// previous one for the same (owner, provider).
	Connect(ctx context.Context, integration domain.Integration) (*domain.Integration, error)

	// Disconnect soft-disables the integration. Stored Contexts are
	// kept.
	Disconnect(ctx context.Context, owner string, provider domain.ProviderType) error
}
