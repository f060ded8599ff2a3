package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/01072k1anhCong2/kinhkong/internal/domain"
)

const Topic = "order-events"

const (
	TypeOrderPlaced        = "order_placed"
	TypeFulfillmentUpdated = "fulfillment_updated"
)

// Event is the JSON payload published for downstream consumers (mail,
// analytics). Order writes never depend on these going out.
type Event struct {
	Type           string             `json:"type"`
	OrderID        string             `json:"order_id"`
	UserID         string             `json:"user_id"`
	Total          int64              `json:"total"`
	Status         domain.OrderStatus `json:"status"`
	TrackingNumber string             `json:"tracking_number,omitempty"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

func OrderPlaced(order *domain.Order) Event {
	return Event{
		Type:       TypeOrderPlaced,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Total:      order.Total,
		Status:     order.Status,
		OccurredAt: time.Now(),
	}
}

func FulfillmentUpdated(order *domain.Order) Event {
	return Event{
		Type:           TypeFulfillmentUpdated,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Total:          order.Total,
		Status:         order.Status,
		TrackingNumber: order.TrackingNumber,
		OccurredAt:     time.Now(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
