package oauth

import (
	"context"
	"fmt"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Ensure Refresher implements the interface.
var _ driven.TokenRefresher = (*Refresher)(nil)

// ClientCredentials is one provider's OAuth app credentials.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// Refresher refreshes provider access tokens at the providers' token
// endpoints.
type Refresher struct {
	credentials map[domain.ProviderType]ClientCredentials
}

// NewRefresher creates a refresher with per-provider app credentials.
func NewRefresher(credentials map[domain.ProviderType]ClientCredentials) *Refresher {
	return &Refresher{credentials: credentials}
}

// Refresh exchanges the integration's refresh token for a new access token.
func (r *Refresher) Refresh(
	ctx context.Context, integration domain.Integration,
) (*driven.RefreshedToken, error) {
	if integration.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token", domain.ErrTokenRefreshFailed)
	}

	creds, ok := r.credentials[integration.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: no client credentials for %s",
			domain.ErrTokenRefreshFailed, integration.Provider)
	}

	tokenURL, err := TokenURL(integration.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}

	resp, err := RefreshAccessToken(ctx, tokenURL, creds.ClientID, creds.ClientSecret, integration.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token in response", domain.ErrTokenRefreshFailed)
	}

	return &driven.RefreshedToken{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}
