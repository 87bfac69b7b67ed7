package http_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/core-coin/walletsync/internal/auth"
	"github.com/core-coin/walletsync/internal/models"
)

// syncWallet is a handler for the /wallet/sync endpoint.
// It provisions the caller's user and wallet record.
func (s *HTTPServer) syncWallet(c *gin.Context) {
	credential, err := auth.ExtractBearer(c.GetHeader("Authorization"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := s.syncer.SyncWallet(c.Request.Context(), credential)
	if err != nil {
		// The service already logged internal failures with their stage.
		if !errors.Is(err, models.ErrInternal) {
			s.logger.Debugw("Wallet sync rejected", "error", err)
		}
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// health is a handler for the /health endpoint.
func (s *HTTPServer) health(c *gin.Context) {
	if err := s.syncer.Healthy(c.Request.Context()); err != nil {
		s.logger.Errorw("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": msgServiceUnready})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
