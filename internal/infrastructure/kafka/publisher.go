package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mythribanda/ClaimWatch/internal/domain/port"
	"github.com/mythribanda/ClaimWatch/pkg/events"
	pkgkafka "github.com/mythribanda/ClaimWatch/pkg/kafka"
)

// Compile-time interface checks.
var (
	_ port.EventPublisher = (*Publisher)(nil)
	_ port.EventPublisher = (*LogPublisher)(nil)
)

// MessageProducer is the part of *pkgkafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher implements port.EventPublisher using Kafka. Events are keyed by
// claim ID so every event of one claim lands on the same partition.
type Publisher struct {
	producer MessageProducer
	logger   *slog.Logger
	topic    string
}

// NewPublisher creates a new Kafka event publisher.
func NewPublisher(producer MessageProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka in a single batch.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	messages, err := encode(domainEvents)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	for _, m := range messages {
		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", m.Headers[headerEventType]),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(m.Value)),
		)
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}

const (
	headerEventType     = "event_type"
	headerAggregateType = "aggregate_type"
)

func encode(domainEvents []events.DomainEvent) ([]pkgkafka.Message, error) {
	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, evt := range domainEvents {
		payload, err := json.Marshal(evt)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}
		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: payload,
			Headers: map[string]string{
				headerEventType:     evt.EventType(),
				headerAggregateType: evt.AggregateType(),
			},
		})
	}
	return messages, nil
}

// LogPublisher implements port.EventPublisher by logging each event. It is
// used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event at info level with its payload at debug level.
func (p *LogPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	messages, err := encode(domainEvents)
	if err != nil {
		return err
	}
	for _, m := range messages {
		p.logger.InfoContext(ctx, "event emitted",
			slog.String("event_type", m.Headers[headerEventType]),
			slog.String("aggregate_id", string(m.Key)),
		)
		p.logger.DebugContext(ctx, "event payload", slog.String("payload", string(m.Value)))
	}
	return nil
}
