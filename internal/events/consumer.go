package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// NotificationSender delivers a notification via the external notification
// service; that service owns templates and transport.
type NotificationSender interface {
	Send(ctx context.Context, notification *models.Notification) error
}

// KafkaConsumer reads order events back off the orders topic and turns them
// into buyer notifications, keeping notification latency off the placement
// path.
type KafkaConsumer struct {
	reader   *kafka.Reader
	notifier NotificationSender
	logger   *logging.Logger
	stopCh   chan struct{}
}

// NewKafkaConsumer creates a new Kafka-based order event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, notifier NotificationSender, logger *logging.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.OrdersTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		notifier: notifier,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins consuming events until the context is done or Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting order event consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Order event consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("Failed to read message", logging.Fields{"error": err.Error()})
				continue
			}
			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var event OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", logging.Fields{"error": err.Error()})
		return
	}

	notification := c.notificationFor(&event)
	if notification == nil {
		return
	}

	if err := c.notifier.Send(ctx, notification); err != nil {
		c.logger.Error("Failed to send notification", logging.Fields{
			"order_id":   event.OrderID,
			"event_type": string(event.Type),
			"error":      err.Error(),
		})
	}
}

// notificationFor maps an order event to the notification it should
// produce, or nil when the event warrants none.
func (c *KafkaConsumer) notificationFor(event *OrderEvent) *models.Notification {
	switch event.Type {
	case EventTypeOrderPlaced:
		return &models.Notification{
			Recipient: event.BuyerID,
			Subject:   "Order Confirmation",
			Body:      fmt.Sprintf("Your order %s has been placed with Cash on Delivery.", event.OrderID),
			Metadata:  map[string]string{"order_id": event.OrderID},
		}
	case EventTypeOrderStatusChanged:
		var payload StatusChangePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			c.logger.Error("Failed to unmarshal status payload", logging.Fields{"error": err.Error()})
			return nil
		}
		switch payload.NewStatus {
		case models.OrderStatusShipped:
			return &models.Notification{
				Recipient: event.BuyerID,
				Subject:   "Order Shipped",
				Body:      fmt.Sprintf("Your order %s has been shipped.", event.OrderID),
				Metadata:  map[string]string{"order_id": event.OrderID},
			}
		case models.OrderStatusDelivered:
			return &models.Notification{
				Recipient: event.BuyerID,
				Subject:   "Order Delivered",
				Body:      fmt.Sprintf("Your order %s has been delivered.", event.OrderID),
				Metadata:  map[string]string{"order_id": event.OrderID},
			}
		case models.OrderStatusCancelled:
			return &models.Notification{
				Recipient: event.BuyerID,
				Subject:   "Order Cancelled",
				Body:      fmt.Sprintf("Your order %s has been cancelled.", event.OrderID),
				Metadata:  map[string]string{"order_id": event.OrderID},
			}
		}
		return nil
	default:
		return nil
	}
}
