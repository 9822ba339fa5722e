package events

import (
	"context"
	"testing"
	"time"
)

func TestNilPublisher(t *testing.T) {
	// WHAT: No brokers means a nil Publisher, and publishing through it is
	// a safe no-op.
	// WHY: The pipeline must run identically without a Kafka deployment.
	p := NewPublisher(nil, nil)
	if p != nil {
		t.Fatal("expected nil publisher without brokers")
	}
	if err := p.Publish(context.Background(), PriceUpdated{ProductID: "x", Price: 1, UpdatedAt: time.Now()}); err != nil {
		t.Errorf("publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestNewPublisher(t *testing.T) {
	// WHAT: With brokers configured, the writer targets the price topic.
	p := NewPublisher([]string{"localhost:9092"}, nil)
	if p == nil {
		t.Fatal("expected a publisher")
	}
	defer p.Close()
	if p.writer.Topic != Topic {
		t.Errorf("topic: got %q, want %q", p.writer.Topic, Topic)
	}
}
