package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/worklens/worklens/internal/core/domain"
)

type syncRequest struct {
	Owner    string `json:"owner" binding:"required"`
	DaysBack int    `json:"daysBack"`
}

type smartSyncRequest struct {
	Owner string `json:"owner" binding:"required"`
}

// handleSync triggers a full sync. Partial provider failures still answer
// 200; the payload carries the error strings.
func (s *Server) handleSync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}

	result, err := s.syncs.SyncAll(c.Request.Context(), req.Owner, req.DaysBack)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSmartSync(c *gin.Context) {
	var req smartSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}

	result, err := s.syncs.SmartSync(c.Request.Context(), req.Owner)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSearch(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := s.searches.Search(c.Request.Context(), owner, c.Query("q"), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStats(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}

	stats, err := s.stats.Stats(c.Request.Context(), owner)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleListIntegrations(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}

	integrations, err := s.integrations.List(c.Request.Context(), owner)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"integrations": integrations})
}

func (s *Server) handleDisconnect(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner is required"})
		return
	}
	provider := domain.ProviderType(c.Param("provider"))

	if err := s.integrations.Disconnect(c.Request.Context(), owner, provider); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
