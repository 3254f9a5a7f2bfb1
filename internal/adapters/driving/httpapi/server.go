// Package httpapi exposes the sync and query services over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driving"
	"github.com/worklens/worklens/internal/logger"
)

// Server wires the core services to HTTP routes.
type Server struct {
	syncs        driving.SyncService
	searches     driving.SearchService
	stats        driving.StatsService
	integrations driving.IntegrationService
	oauth        *OAuthHandler

	http *http.Server
}

// NewServer creates a server. The oauth handler may be nil; the connect
// endpoints then answer 404.
func NewServer(
	addr string,
	syncs driving.SyncService,
	searches driving.SearchService,
	stats driving.StatsService,
	integrations driving.IntegrationService,
	oauth *OAuthHandler,
) *Server {
	s := &Server{
		syncs:        syncs,
		searches:     searches,
		stats:        stats,
		integrations: integrations,
		oauth:        oauth,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// router builds the gin engine with all routes registered.
func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	api.POST("/sync", s.handleSync)
	api.POST("/smart-sync", s.handleSmartSync)
	api.GET("/search", s.handleSearch)
	api.GET("/stats", s.handleStats)
	api.GET("/integrations", s.handleListIntegrations)
	api.DELETE("/integrations/:provider", s.handleDisconnect)

	if s.oauth != nil {
		api.POST("/integrations/:provider/connect", s.oauth.handleConnect)
		api.GET("/oauth/callback", s.oauth.handleCallback)
	}

	return engine
}

// Start begins serving. Blocks until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	logger.Info("http server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// errorStatus maps domain errors onto HTTP status codes. Anything not
// recognised as a caller mistake is a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotConnected):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAuthInvalid), errors.Is(err, domain.ErrAuthExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}
