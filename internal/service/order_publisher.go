package service

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/entity"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const orderPlacedQueue = "order.placed"

// OrderPlacedEvent is the wire shape published for downstream consumers
// (fulfillment, analytics).
type OrderPlacedEvent struct {
	OrderID        string    `json:"order_id"`
	SessionID      string    `json:"session_id"`
	UserID         *string   `json:"user_id,omitempty"`
	Subtotal       float64   `json:"subtotal"`
	DiscountTotal  float64   `json:"discount_total"`
	CouponDiscount float64   `json:"coupon_discount"`
	Total          float64   `json:"total"`
	PlacedAt       time.Time `json:"placed_at"`
}

// AMQPOrderPublisher publishes order events to RabbitMQ. Failures are
// returned for logging but never interrupt checkout.
type AMQPOrderPublisher struct {
	URL string
	Log *logrus.Logger
}

func NewAMQPOrderPublisher(url string, log *logrus.Logger) *AMQPOrderPublisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AMQPOrderPublisher{URL: url, Log: log}
}

func (p *AMQPOrderPublisher) PublishOrderPlaced(ctx context.Context, order *entity.Order) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.WithError(err).Warn("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	channel, err := conn.Channel()
	if err != nil {
		p.Log.WithError(err).Warn("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = channel.Close() }()

	// Durable queue so events survive broker restarts.
	if _, err := channel.QueueDeclare(orderPlacedQueue, true, false, false, false, nil); err != nil {
		p.Log.WithError(err).Warn("rabbitmq queue declare failed")
		return err
	}

	event := OrderPlacedEvent{
		OrderID:        order.ID.String(),
		SessionID:      order.SessionID,
		Subtotal:       order.Subtotal,
		DiscountTotal:  order.DiscountTotal,
		CouponDiscount: order.CouponDiscount,
		Total:          order.Total,
		PlacedAt:       order.CreatedAt,
	}
	if order.UserID != nil {
		id := order.UserID.String()
		event.UserID = &id
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return channel.PublishWithContext(ctx, "", orderPlacedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
