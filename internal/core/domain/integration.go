package domain

import "time"

// ProviderType identifies an external collaboration provider.
type ProviderType string

// Supported providers.
const (
	ProviderGitHub ProviderType = "github"
	ProviderJira   ProviderType = "jira"
	ProviderSlack  ProviderType = "slack"
)

// AllProviderTypes lists every provider in a stable order.
func AllProviderTypes() []ProviderType {
	return []ProviderType{ProviderGitHub, ProviderJira, ProviderSlack}
}

// IsValid reports whether the provider type is known.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderGitHub, ProviderJira, ProviderSlack:
		return true
	}
	return false
}

// Integration holds a user's connection to one provider. There is at most
// one per (Owner, Provider). Integrations are soft-disabled on disconnect,
// never hard-deleted, so historical Contexts remain attributable.
type Integration struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	// Owner is the account the integration belongs to.
	Owner string `json:"owner"`

	// Provider identifies the external provider.
	Provider ProviderType `json:"provider"`

	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`

	// RefreshToken is used to obtain new access tokens. Empty for
	// providers issuing non-expiring tokens.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Expiry is when the access token expires. Zero means no expiry.
	Expiry time.Time `json:"expiry,omitempty"`

	// SiteMetadata carries provider-specific workspace identifiers:
	// Jira cloud id and site URL, Slack team id, GitHub login.
	SiteMetadata map[string]string `json:"site_metadata,omitempty"`

	// Active is false once the user disconnects the provider.
	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired reports whether the access token has expired.
func (i *Integration) IsExpired() bool {
	if i.Expiry.IsZero() {
		return false
	}
	return time.Now().After(i.Expiry)
}

// NeedsRefresh reports whether the token is within the refresh window and a
// refresh token is available.
func (i *Integration) NeedsRefresh(window time.Duration) bool {
	if i.RefreshToken == "" || i.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(window).After(i.Expiry)
}

// Site returns a site metadata value, or "" when absent.
func (i *Integration) Site(key string) string {
	if i.SiteMetadata == nil {
		return ""
	}
	return i.SiteMetadata[key]
}
