package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cafeteria/internal/domain"
)

const EventTypeOrderCreated = "order.created"

type OrderCreatedEvent struct {
	EventID     string             `json:"eventId"`
	EventType   string             `json:"eventType"`
	OrderID     string             `json:"orderId"`
	CustomerUID string             `json:"customerUid"`
	Total       decimal.Decimal    `json:"total"`
	Items       []domain.OrderItem `json:"items"`
	Status      domain.OrderStatus `json:"status"`
	PickupTime  string             `json:"pickupTime"`
	Timestamp   time.Time          `json:"timestamp"`
	TraceID     string             `json:"traceId,omitempty"`
}

func NewOrderCreated(order domain.Order, traceID string, now time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		EventID:     uuid.New().String(),
		EventType:   EventTypeOrderCreated,
		OrderID:     order.ID,
		CustomerUID: order.CustomerUID,
		Total:       order.DisplayTotal(),
		Items:       order.Items,
		Status:      order.Status,
		PickupTime:  order.PickupTime,
		Timestamp:   now.UTC(),
		TraceID:     traceID,
	}
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, OrderCreatedEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
