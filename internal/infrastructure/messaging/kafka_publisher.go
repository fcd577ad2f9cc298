// Package messaging publishes integration events to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/infrastructure/telemetry"
)

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes integration events as JSON, keyed by tenant id so one
// tenant's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher builds a publisher writing to cfg.Topic on cfg.Brokers.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.WriteTimeout,
		ReadTimeout:            cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg.Topic, logger)
}

func newKafkaPublisher(w messageWriter, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{writer: w, topic: topic, logger: logger}
}

// PublishIngestionCompleted implements integration.EventPublisher.
func (p *KafkaPublisher) PublishIngestionCompleted(ctx context.Context, event integration.IngestionCompletedEvent) error {
	ctx, span := otel.Tracer(telemetry.TracerName).Start(ctx, "publish "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.String("messaging.event_type", event.EventType()),
		),
	)
	defer span.End()

	value, err := json.Marshal(event)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("messaging: encode %s: %w", event.EventType(), err)
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(event.EventType())},
		{Key: "event_id", Value: []byte(event.EventID().String())},
	}
	otel.GetTextMapPropagator().Inject(ctx, &headerCarrier{headers: &headers})

	msg := kafka.Message{
		Key:     []byte(event.TenantID().String()),
		Value:   value,
		Time:    time.Now().UTC(),
		Headers: headers,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("messaging: publish %s: %w", event.EventType(), err)
	}

	telemetry.SetOK(span)
	p.logger.Debug("Published event",
		zap.String("topic", p.topic),
		zap.String("event_type", event.EventType()),
		zap.String("tenant_id", event.TenantID().String()),
	)
	return nil
}

// Close flushes buffered messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// headerCarrier adapts Kafka headers to propagation.TextMapCarrier.
type headerCarrier struct {
	headers *[]kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, len(*c.headers))
	for i, h := range *c.headers {
		keys[i] = h.Key
	}
	return keys
}

// NoopPublisher drops every event. Used when Kafka is disabled.
type NoopPublisher struct{}

// PublishIngestionCompleted implements integration.EventPublisher.
func (NoopPublisher) PublishIngestionCompleted(context.Context, integration.IngestionCompletedEvent) error {
	return nil
}

// Close implements integration.EventPublisher.
func (NoopPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher when enabled, a no-op otherwise.
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) integration.EventPublisher {
	if !cfg.Enabled {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg, logger)
}
