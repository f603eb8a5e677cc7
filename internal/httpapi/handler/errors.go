package handler

import (
	"errors"
	"net/http"

	"bookhub/internal/httpapi/service"
	"bookhub/internal/ingestion/openlibrary"
	"bookhub/internal/ownership"

	"github.com/gin-gonic/gin"
)

// respondError maps core errors onto HTTP statuses. Conflicts and
// not-founds are client-correctable; upstream and storage failures are
// reported with no partial effect.
func respondError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Reason})
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var accessErr *ownership.AccessError
	if errors.As(err, &accessErr) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "library root unreadable"})
		return
	}

	var upstreamErr *openlibrary.UpstreamError
	if errors.As(err, &upstreamErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "catalogue unavailable",
			"attempts": upstreamErr.Attempts,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
