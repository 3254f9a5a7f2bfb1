package driven

import (
	"context"

	"github.com/worklens/worklens/internal/core/domain"
)

// CredentialProvider resolves a usable credential for provider API calls.
// Implementations refresh tokens transparently when they are near expiry
// and persist the refreshed state.
type CredentialProvider interface {
	// ActiveCredential returns the active integration for
	// (owner, provider) with a valid access token, refreshing if needed.
	// Returns domain.ErrNotConnected when no active integration exists
	// and domain.ErrAuthExpired when refresh fails.
	ActiveCredential(
		ctx context.Context, owner string, provider domain.ProviderType,
	) (*domain.Integration, error)
}

// TokenRefresher exchanges a refresh token for a new access token at the
// provider's token endpoint.
type TokenRefresher interface {
	// Refresh returns the new access token, optional rotated refresh
	// token, and expiry.
	Refresh(ctx context.Context, integration domain.Integration) (*RefreshedToken, error)
}

// RefreshedToken is the outcome of a token refresh.
type RefreshedToken struct {
	AccessToken  string
	RefreshToken string // empty when the provider does not rotate it
	ExpiresIn    int    // seconds; 0 means no expiry reported
}
