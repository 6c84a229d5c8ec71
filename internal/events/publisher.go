// Package events publishes loan lifecycle events to Kafka.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"libraryhub/internal/config"
	"libraryhub/internal/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per loan event, keyed by reader id so a
// reader's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no
// brokers are configured.
func NewPublisher(cfg *config.Config, logger *slog.Logger) Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("loan events disabled, no KAFKA_BROKERS configured")
		return NopPublisher{}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaLoanTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	logger.Info("loan events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaLoanTopic)
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

// Publisher is a closable library.EventPublisher.
type Publisher interface {
	library.EventPublisher
	Close() error
}

func (p *KafkaPublisher) PublishLoanEvent(ctx context.Context, event library.LoanEvent) error {
	msg, err := encode(ctx, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for loan %d: %w", event.Type, event.LoanID, err)
	}
	p.logger.Debug("loan event published", "type", event.Type, "loan_id", event.LoanID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(ctx context.Context, event library.LoanEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	headers := headerCarrier{
		{Key: "event_id", Value: []byte(uuid.NewString())},
		{Key: "event_type", Value: []byte(event.Type)},
	}
	otel.GetTextMapPropagator().Inject(ctx, &headers)

	return kafka.Message{
		Key:     []byte(strconv.FormatInt(event.ReaderID, 10)),
		Value:   value,
		Headers: headers,
		Time:    event.OccurredAt,
	}, nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishLoanEvent(context.Context, library.LoanEvent) error { return nil }
func (NopPublisher) Close() error                                             { return nil }
