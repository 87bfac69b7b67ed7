package http_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/core-coin/walletsync/internal/models"
)

// Messages returned to callers. They never carry internal details.
const (
	msgUnauthorized   = "Unauthorized"
	msgInvalidToken   = "Invalid token"
	msgNoWallet       = "No embedded wallet found. Please try logging out and back in."
	msgFailedToSync   = "Failed to sync wallet"
	msgServiceUnready = "Service unavailable"
)

type errorResponse struct {
	status int
	body   gin.H
}

// errorTable maps the error taxonomy to responses. Order matters: an internal
// failure wrapping a not-found cause is still internal.
var errorTable = []struct {
	target   error
	response errorResponse
}{
	{models.ErrInternal, errorResponse{http.StatusInternalServerError, gin.H{"error": msgFailedToSync}}},
	{models.ErrMissingCredential, errorResponse{http.StatusUnauthorized, gin.H{"error": msgUnauthorized}}},
	{models.ErrUnauthorized, errorResponse{http.StatusUnauthorized, gin.H{"error": msgInvalidToken}}},
	{models.ErrNotFound, errorResponse{http.StatusNotFound, gin.H{"synced": false, "error": msgNoWallet}}},
}

// responseFor classifies err. Conflicts and unknown errors are internal.
func responseFor(err error) errorResponse {
	for _, entry := range errorTable {
		if errors.Is(err, entry.target) {
			return entry.response
		}
	}
	return errorResponse{http.StatusInternalServerError, gin.H{"error": msgFailedToSync}}
}

func abortWithError(c *gin.Context, err error) {
	r := responseFor(err)
	c.AbortWithStatusJSON(r.status, r.body)
}
