package producer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPaid          = "order.paid"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderItemEvent struct {
	ProductID  uuid.UUID       `json:"product_id"`
	StockID    *uuid.UUID      `json:"stock_id,omitempty"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderPaidEvent struct {
	OrderID        uuid.UUID        `json:"order_id"`
	UserID         uuid.UUID        `json:"user_id"`
	DiscountCodeID *uuid.UUID       `json:"discount_code_id,omitempty"`
	Items          []OrderItemEvent `json:"items"`
	TotalPrice     decimal.Decimal  `json:"total_price"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	ShippingCost   decimal.Decimal  `json:"shipping_cost"`
	FinalPrice     decimal.Decimal  `json:"final_price"`
	PaidAt         time.Time        `json:"paid_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// OrderEventProducer пишет события заказов с ключом по id заказа,
// тип события лежит в заголовке event-type
type OrderEventProducer struct {
	publisher
}

func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	return &OrderEventProducer{publisher: newPublisher(brokers, topic)}
}

func (p *OrderEventProducer) PublishOrderPaid(ctx context.Context, e OrderPaidEvent) error {
	return p.publish(ctx, e.OrderID.String(), e, eventHeader(EventOrderPaid))
}

func (p *OrderEventProducer) PublishOrderStatusChanged(ctx context.Context, e OrderStatusChangedEvent) error {
	return p.publish(ctx, e.OrderID.String(), e, eventHeader(EventOrderStatusChanged))
}

func eventHeader(eventType string) kafka.Header {
	return kafka.Header{Key: "event-type", Value: []byte(eventType)}
}
