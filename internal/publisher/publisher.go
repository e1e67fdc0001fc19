// Package publisher emits checkout events to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const (
	DefaultTopic       = "cart-checkouts"
	EventTypeCompleted = "CartCheckedOut"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CheckoutEvent is the message payload published for every committed checkout
type CheckoutEvent struct {
	CheckoutID string              `json:"checkout_id"`
	UserID     string              `json:"user_id"`
	CartID     string              `json:"cart_id"`
	Items      []CheckoutEventItem `json:"items"`
	TotalPrice int64               `json:"total_price"`
	CreatedAt  time.Time           `json:"created_at"`
}

type CheckoutEventItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

type Publisher struct {
	timeout time.Duration
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewPublisher(topic string, brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, 5*time.Second)
}

func newPublisher(w messageWriter, timeout time.Duration) *Publisher {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "kafka-checkout-publisher",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return &Publisher{timeout: timeout, writer: w, breaker: breaker}
}

// RecordCheckout publishes the checkout keyed by user id so that events of one
// user keep their order
func (p *Publisher) RecordCheckout(ctx context.Context, rec domain.CheckoutRecord) error {
	payload, err := json.Marshal(toEvent(rec))
	if err != nil {
		return fmt.Errorf("marshal checkout event failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(rec.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeCompleted)},
			{Key: "checkout_id", Value: []byte(rec.ID)},
		},
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return struct{}{}, p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("publish checkout %s failed: %w", rec.ID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func toEvent(rec domain.CheckoutRecord) CheckoutEvent {
	items := make([]CheckoutEventItem, 0, len(rec.Items))
	for _, it := range rec.Items {
		items = append(items, CheckoutEventItem{
			ProductID:   it.Product.ID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.Product.Price,
			Subtotal:    it.LineTotal,
		})
	}
	return CheckoutEvent{
		CheckoutID: rec.ID,
		UserID:     rec.UserID,
		CartID:     rec.CartID,
		Items:      items,
		TotalPrice: rec.TotalPrice,
		CreatedAt:  rec.CreatedAt,
	}
}
