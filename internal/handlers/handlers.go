package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bloomkart/bloomkart-orders-service/internal/apperrors"
	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/service"
)

// Handlers holds the HTTP handlers for the orders service.
type Handlers struct {
	orders *service.OrderService
	config *config.Config
	logger *logging.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(orders *service.OrderService, cfg *config.Config) *Handlers {
	return &Handlers{
		orders: orders,
		config: cfg,
		logger: logging.New("handlers"),
	}
}

// handleError maps the error taxonomy onto HTTP statuses. Unexpected errors
// are logged and surfaced as a generic message, never raw internals.
func (h *Handlers) handleError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err), apperrors.IsInsufficientStock(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	default:
		h.logger.Error("Unexpected error", logging.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
	}
}
