package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/core/ports/driving"
	"github.com/worklens/worklens/internal/logger"
)

var _ driving.IntegrationService = (*IntegrationService)(nil)

// IntegrationService manages provider connections.
type IntegrationService struct {
	integrations driven.IntegrationStore
	connectors   map[domain.ProviderType]driven.Connector
	now          func() time.Time
}

// NewIntegrationService creates an integration service.
func NewIntegrationService(
	integrations driven.IntegrationStore,
	connectors map[domain.ProviderType]driven.Connector,
) *IntegrationService {
	return &IntegrationService{
		integrations: integrations,
		connectors:   connectors,
		now:          time.Now,
	}
}

// List returns the owner's integrations with tokens redacted.
func (s *IntegrationService) List(ctx context.Context, owner string) ([]domain.Integration, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}

	integrations, err := s.integrations.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}

	for i := range integrations {
		integrations[i].AccessToken = ""
		integrations[i].RefreshToken = ""
	}
	return integrations, nil
}

// Connect validates the credential against the provider and stores the
// integration as active, replacing any previous one for the same
// (owner, provider).
func (s *IntegrationService) Connect(ctx context.Context, integration domain.Integration) (*domain.Integration, error) {
	if integration.Owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if !integration.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, integration.Provider)
	}
	if integration.AccessToken == "" {
		return nil, fmt.Errorf("%w: access token is required", domain.ErrInvalidInput)
	}

	connector, ok := s.connectors[integration.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: no connector for provider %q", domain.ErrInvalidInput, integration.Provider)
	}
	if err := connector.Validate(ctx, integration); err != nil {
		return nil, fmt.Errorf("validate %s credential: %w", integration.Provider, err)
	}

	now := s.now()
	integration.ID = uuid.NewString()
	integration.Active = true
	integration.CreatedAt = now
	integration.UpdatedAt = now

	if err := s.integrations.Save(ctx, integration); err != nil {
		return nil, fmt.Errorf("save integration: %w", err)
	}

	logger.Info("connected %s for %s", integration.Provider, integration.Owner)
	return &integration, nil
}

// Disconnect soft-disables the integration. Stored Contexts are kept.
func (s *IntegrationService) Disconnect(ctx context.Context, owner string, provider domain.ProviderType) error {
	if owner == "" {
		return fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}

	if err := s.integrations.Deactivate(ctx, owner, provider); err != nil {
		return fmt.Errorf("deactivate %s: %w", provider, err)
	}

	logger.Info("disconnected %s for %s", provider, owner)
	return nil
}
