package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloomkart/bloomkart-orders-service/internal/clients"
	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/events"
	"github.com/bloomkart/bloomkart-orders-service/internal/handlers"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/repository"
	"github.com/bloomkart/bloomkart-orders-service/internal/server"
	"github.com/bloomkart/bloomkart-orders-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	logger := logging.New("orders-service")

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	orderRepo := repository.NewPostgresOrderRepository(db, logger)
	orderCache := buildOrderCache(cfg, logger)

	eventPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	defer eventPublisher.Close()

	var buyerValidator service.BuyerValidator
	if cfg.Features.EnableBuyerValidation {
		buyerValidator = clients.NewHTTPUserClient(cfg.UserService, logger)
	}

	orderService := service.NewOrderService(
		orderRepo,
		orderCache,
		eventPublisher,
		buyerValidator,
		cfg,
	)

	h := handlers.NewHandlers(orderService, cfg)
	srv := server.New(h, cfg)

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":          cfg.Server.Port,
			"order_caching": cfg.Features.EnableOrderCaching,
			"order_events":  cfg.Features.EnableOrderEvents,
			"notifications": cfg.Features.EnableNotifications,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	var eventConsumer *events.KafkaConsumer
	if cfg.Features.EnableOrderEvents && cfg.Features.EnableNotifications {
		notifier := clients.NewHTTPNotificationClient(cfg.NotificationService, logger)
		eventConsumer = events.NewKafkaConsumer(cfg.Kafka, notifier, logger)
		go func() {
			if err := eventConsumer.Start(context.Background()); err != nil && err != context.Canceled {
				logger.Error("Event consumer failed", logging.Fields{"error": err.Error()})
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if eventConsumer != nil {
		eventConsumer.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	logger.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}

func buildOrderCache(cfg *config.Config, logger *logging.Logger) service.OrderCache {
	if cfg.Redis.Host != "" {
		return repository.NewRedisOrderCache(cfg.Redis)
	}

	logger.Warn("Redis not configured, using in-process order cache")
	cache, err := repository.NewMemoryOrderCache(1024)
	if err != nil {
		logger.Fatal("Failed to build order cache", logging.Fields{"error": err.Error()})
	}
	return cache
}
