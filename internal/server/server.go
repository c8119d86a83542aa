package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/handlers"
	"github.com/bloomkart/bloomkart-orders-service/internal/middleware"
)

type Server struct {
	config *config.Config
	router *gin.Engine
	http   *http.Server
}

// New builds the router and wraps it in an http.Server so shutdown can
// drain in-flight requests.
func New(h *handlers.Handlers, cfg *config.Config) *Server {
	router := gin.Default()
	router.Use(middleware.Metrics())

	s := &Server{
		config: cfg,
		router: router,
		http: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	s.setupRoutes(h)

	return s
}

func (s *Server) setupRoutes(h *handlers.Handlers) {
	s.router.GET("/health", h.Health)
	s.router.GET("/ready", h.Ready)
	s.router.GET("/live", h.Live)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	order := s.router.Group("/order", middleware.RequireAuth(s.config.Auth))
	{
		order.POST("/new", h.PlaceOrder)
		order.GET("/orders/me", h.MyOrders)
		order.GET("/:orderId", h.SingleOrder)

		admin := order.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/getall", h.AllOrders)
			admin.PUT("/update/:orderId", h.UpdateOrderStatus)
			admin.DELETE("/delete/:orderId", h.DeleteOrder)
		}
	}
}

// Start begins serving requests.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
