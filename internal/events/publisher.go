package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher writes booking lifecycle events to Kafka. Publishing is
// best-effort: failures are logged and never fail the originating request.
type Publisher struct {
	writer *kafka.Writer
	source string
	logger *zap.Logger
}

// NewPublisher creates a Publisher for the given brokers.
func NewPublisher(brokers []string, source string, logger *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{writer: writer, source: source, logger: logger}
}

// Publish wraps data in a CloudEvent and writes it to the topic, keyed so
// events for one booking stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, topic, eventType, key string, data interface{}) {
	ce, err := NewCloudEvent(p.source, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	value, err := json.Marshal(ce)
	if err != nil {
		p.logger.Error("failed to marshal cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
