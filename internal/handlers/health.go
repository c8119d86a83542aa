package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orders-service",
	})
}

// Ready handles GET /ready
func (h *Handlers) Ready(c *gin.Context) {
	// TODO(orders): check DB, Redis and Kafka connectivity here
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "orders-service",
	})
}

// Live handles GET /live
func (h *Handlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
