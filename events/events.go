// Package events publishes price-update events to Kafka for downstream
// consumers (alerting, analytics). Publishing is optional: a nil Publisher
// is a no-op, so the pipeline runs identically without a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

// Topic carries one message per accepted best offer, keyed by product id.
const Topic = "prixwatch.price-updates"

// PriceUpdated is the event body.
type PriceUpdated struct {
	ProductID string    `json:"product_id"`
	Vendor    string    `json:"vendor"`
	Price     float64   `json:"price"`
	OldPrice  float64   `json:"old_price,omitempty"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Publisher writes events to Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher creates a Publisher for the given brokers. Returns nil when
// brokers is empty; the nil Publisher publishes nothing.
func NewPublisher(brokers []string, logger *slog.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    Topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// Publish sends one event. Nil-safe.
func (p *Publisher) Publish(ctx context.Context, ev PriceUpdated) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ProductID),
		Value: payload,
	})
}

// Close flushes and closes the writer. Nil-safe.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
