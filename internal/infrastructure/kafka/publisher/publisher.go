package publisher

import (
	"context"
	"encoding/json"

	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publishes bar events to a Kafka topic.
type Publisher struct {
	writer messageWriter
	logger logger.Interface
}

var _ barv1.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a Kafka publisher. Messages are keyed by symbol so one
// symbol's events stay ordered within a partition.
func NewPublisher(config Config, logger logger.Interface) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: config.BatchTimeout,
		WriteTimeout: config.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// PublishBarsIngested publishes one BarsIngested event.
func (p *Publisher) PublishBarsIngested(ctx context.Context, event barv1.BarsIngested) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.TracerFromError(err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Symbol),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("bars_ingested")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.NewField("symbol", event.Symbol),
			logger.NewField("frequency", event.Frequency),
		)
		return errors.NewErrorDetailsf(errors.KafkaPublishError, "symbol", "failed to publish bars event for %s", event.Symbol)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. It is used when publishing is disabled.
type NoopPublisher struct{}

var _ barv1.EventPublisher = NoopPublisher{}

// PublishBarsIngested does nothing.
func (NoopPublisher) PublishBarsIngested(context.Context, barv1.BarsIngested) error { return nil }

// Close does nothing.
func (NoopPublisher) Close() error { return nil }

// New returns a Kafka publisher when enabled and a NoopPublisher otherwise.
func New(config Config, logger logger.Interface) barv1.EventPublisher {
	if !config.Enabled {
		return NoopPublisher{}
	}
	return NewPublisher(config, logger)
}
