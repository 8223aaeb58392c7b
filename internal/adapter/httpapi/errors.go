package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/logger"
)

// respondError maps the domain error taxonomy to HTTP statuses.
// Unrecognized errors are logged and surfaced as a generic 500 so internals
// never leak to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidNumberFormat), errors.Is(err, domain.ErrNotAnInteger):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflictingState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if logger.L != nil {
			logger.L.Error("request failed", "path", c.FullPath(), "error", err.Error())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// badRequest rejects malformed request shapes (bad JSON, bad path params)
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
