package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/worklens/worklens/internal/adapters/driven/oauth"
	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/core/ports/driving"
	"github.com/worklens/worklens/internal/logger"
)

// stateTTL bounds how long a pending connect request stays valid.
const stateTTL = 10 * time.Minute

// OAuthHandler runs the authorization-code handshake for the connect
// endpoints. Pending state tokens live in a TTL store, not a process
// global, so several server instances can expire them independently.
type OAuthHandler struct {
	credentials  map[domain.ProviderType]oauth.ClientCredentials
	redirectURI  string
	states       driven.StateTokenStore
	integrations driving.IntegrationService
}

// NewOAuthHandler creates the handler. credentials maps each provider to
// its OAuth app client id and secret.
func NewOAuthHandler(
	credentials map[domain.ProviderType]oauth.ClientCredentials,
	redirectURI string,
	states driven.StateTokenStore,
	integrations driving.IntegrationService,
) *OAuthHandler {
	return &OAuthHandler{
		credentials:  credentials,
		redirectURI:  redirectURI,
		states:       states,
		integrations: integrations,
	}
}

type connectRequest struct {
	Owner string `json:"owner" binding:"required"`
}

// handleConnect issues a state token and returns the provider authorize
// URL the caller should redirect the user to.
func (h *OAuthHandler) handleConnect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}

	provider := domain.ProviderType(c.Param("provider"))
	if !provider.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
		return
	}
	creds, ok := h.credentials[provider]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider not configured"})
		return
	}

	authorizeURL, err := oauth.AuthorizeURL(provider)
	if err != nil {
		abortWithError(c, err)
		return
	}

	state := uuid.NewString()
	h.states.Put(state, driven.StateToken{Owner: req.Owner, Provider: string(provider)}, stateTTL)

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", creds.ClientID)
	query.Set("redirect_uri", h.redirectURI)
	query.Set("state", state)

	c.JSON(http.StatusOK, gin.H{
		"authorize_url": authorizeURL + "?" + query.Encode(),
		"state":         state,
	})
}

// handleCallback consumes the state token, exchanges the code and stores
// the integration.
func (h *OAuthHandler) handleCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errParam})
		return
	}

	state, ok := h.states.Take(c.Query("state"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown or expired state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	provider := domain.ProviderType(state.Provider)
	creds := h.credentials[provider]
	tokenURL, err := oauth.TokenURL(provider)
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := oauth.ExchangeCodeForTokens(
		c.Request.Context(), tokenURL, creds.ClientID, creds.ClientSecret, code, h.redirectURI)
	if err != nil {
		logger.Error("oauth exchange for %s failed: %v", provider, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "token exchange failed"})
		return
	}

	integration := domain.Integration{
		Owner:        state.Owner,
		Provider:     provider,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if token.ExpiresIn > 0 {
		integration.Expiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	connected, err := h.integrations.Connect(c.Request.Context(), integration)
	if err != nil {
		abortWithError(c, err)
		return
	}

	connected.AccessToken = ""
	connected.RefreshToken = ""
	c.JSON(http.StatusOK, gin.H{"integration": connected})
}
