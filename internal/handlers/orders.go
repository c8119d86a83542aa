package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/middleware"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// PlaceOrder handles POST /order/new.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind request", logging.Fields{"error": err.Error()})
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	buyerID := c.GetString(middleware.ContextBuyerIDKey)

	placed, err := h.orders.PlaceOrder(c.Request.Context(), buyerID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Order placed successfully with Cash on Delivery!",
		"orderId":     placed.OrderID,
		"total_price": placed.TotalPrice,
	})
}

// MyOrders handles GET /order/orders/me.
func (h *Handlers) MyOrders(c *gin.Context) {
	buyerID := c.GetString(middleware.ContextBuyerIDKey)

	orders, err := h.orders.FetchMyOrders(c.Request.Context(), buyerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"myOrders": orders,
	})
}

// SingleOrder handles GET /order/:orderId.
func (h *Handlers) SingleOrder(c *gin.Context) {
	order, err := h.orders.FetchSingleOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

// AllOrders handles GET /order/admin/getall.
func (h *Handlers) AllOrders(c *gin.Context) {
	orders, err := h.orders.FetchAllOrders(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
	})
}

// UpdateOrderStatus handles PUT /order/admin/update/:orderId.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "provide a valid status"})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("orderId"), req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"updatedOrder": order,
	})
}

// DeleteOrder handles DELETE /order/admin/delete/:orderId.
func (h *Handlers) DeleteOrder(c *gin.Context) {
	order, err := h.orders.DeleteOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted.",
		"order":   order,
	})
}
