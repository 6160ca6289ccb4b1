package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes computed events as JSON, keyed by tier.
type KafkaPublisher struct {
	Writer MessageWriter
	Now    func() time.Time
}

// NewKafkaWriter returns an async writer for topic on brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}
}

// NewKafkaPublisher wraps w.
func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Now: time.Now}
}

// OnComputed implements Observer.
func (p *KafkaPublisher) OnComputed(ctx context.Context, ev ComputedEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal footprint event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.Result.Tier),
		Value: data,
		Time:  p.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("footprint.computed")},
		},
	}
	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish footprint event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
