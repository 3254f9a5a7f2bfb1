package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/logger"
)

// RefreshWindow is how close to expiry a token gets refreshed ahead of use.
const RefreshWindow = 5 * time.Minute

// Ensure CredentialService implements the interface.
var _ driven.CredentialProvider = (*CredentialService)(nil)

// CredentialService resolves active integrations and refreshes their tokens
// transparently before they expire.
type CredentialService struct {
	integrations driven.IntegrationStore
	refresher    driven.TokenRefresher
}

// NewCredentialService creates a credential service. The refresher may be
// nil when no OAuth app credentials are configured; expiring tokens then
// surface domain.ErrAuthExpired instead of being refreshed.
func NewCredentialService(
	integrations driven.IntegrationStore, refresher driven.TokenRefresher,
) *CredentialService {
	return &CredentialService{
		integrations: integrations,
		refresher:    refresher,
	}
}

// ActiveCredential returns the active integration for (owner, provider)
// with a usable access token.
func (s *CredentialService) ActiveCredential(
	ctx context.Context, owner string, provider domain.ProviderType,
) (*domain.Integration, error) {
	integration, err := s.integrations.Get(ctx, owner, provider)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotConnected
		}
		return nil, fmt.Errorf("get integration: %w", err)
	}
	if !integration.Active {
		return nil, domain.ErrNotConnected
	}

	if integration.NeedsRefresh(RefreshWindow) {
		refreshed, err := s.refresh(ctx, integration)
		if err != nil {
			// A still-valid token can ride out a failed refresh.
			if !integration.IsExpired() {
				logger.Warn("token refresh for %s/%s failed, using current token: %v",
					owner, provider, err)
				return integration, nil
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
		}
		return refreshed, nil
	}

	if integration.IsExpired() {
		return nil, domain.ErrAuthExpired
	}

	return integration, nil
}

// refresh exchanges the refresh token and persists the rotated credential.
func (s *CredentialService) refresh(
	ctx context.Context, integration *domain.Integration,
) (*domain.Integration, error) {
	if s.refresher == nil {
		return nil, domain.ErrTokenRefreshFailed
	}

	token, err := s.refresher.Refresh(ctx, *integration)
	if err != nil {
		return nil, err
	}

	updated := *integration
	updated.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		updated.RefreshToken = token.RefreshToken
	}
	if token.ExpiresIn > 0 {
		updated.Expiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	} else {
		updated.Expiry = time.Time{}
	}

	if err := s.integrations.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("save refreshed integration: %w", err)
	}

	logger.Debug("refreshed %s token for %s", updated.Provider, updated.Owner)
	return &updated, nil
}
