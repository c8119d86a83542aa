package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/bloomkart/bloomkart-orders-service/internal/config"
	"github.com/bloomkart/bloomkart-orders-service/internal/logging"
	"github.com/bloomkart/bloomkart-orders-service/internal/models"
)

// EventType identifies an order lifecycle event.
type EventType string

const (
	EventTypeOrderPlaced        EventType = "order.placed"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderDeleted       EventType = "order.deleted"
)

// OrderEvent is the envelope written to the orders topic.
type OrderEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	OrderID   string          `json:"order_id"`
	BuyerID   string          `json:"buyer_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// StatusChangePayload is the Data payload of a status change event.
type StatusChangePayload struct {
	Order          *models.Order      `json:"order"`
	PreviousStatus models.OrderStatus `json:"previous_status"`
	NewStatus      models.OrderStatus `json:"new_status"`
}

// KafkaPublisher publishes order events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logging.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order placed event.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, newEvent(EventTypeOrderPlaced, order, data))
}

// PublishOrderStatusChanged publishes a status change event.
func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error {
	data, err := json.Marshal(StatusChangePayload{
		Order:          order,
		PreviousStatus: previous,
		NewStatus:      order.OrderStatus,
	})
	if err != nil {
		return err
	}
	return p.publish(ctx, newEvent(EventTypeOrderStatusChanged, order, data))
}

// PublishOrderDeleted publishes an order deleted event.
func (p *KafkaPublisher) PublishOrderDeleted(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, newEvent(EventTypeOrderDeleted, order, data))
}

func newEvent(eventType EventType, order *models.Order, data []byte) *OrderEvent {
	return &OrderEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		OrderID:   order.ID,
		BuyerID:   order.BuyerID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": string(event.Type),
			"order_id":   event.OrderID,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Debug("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"order_id":   event.OrderID,
	})
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	Events []*OrderEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Events: make([]*OrderEvent, 0)}
}

func (m *MockEventPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	m.Events = append(m.Events, newEvent(EventTypeOrderPlaced, order, nil))
	return nil
}

func (m *MockEventPublisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error {
	m.Events = append(m.Events, newEvent(EventTypeOrderStatusChanged, order, nil))
	return nil
}

func (m *MockEventPublisher) PublishOrderDeleted(ctx context.Context, order *models.Order) error {
	m.Events = append(m.Events, newEvent(EventTypeOrderDeleted, order, nil))
	return nil
}
