package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wealthvault-ledger/internal/config"
)

// ErrDLQDisabled is returned when a dead letter is published without a DLQ
// topic configured.
var ErrDLQDisabled = errors.New("dead letter queue is not configured")

// deadLetter wraps an event the archiver could not process, together with
// the failure reason, so it can be inspected and replayed by hand.
type deadLetter struct {
	ClientKey string `json:"client_key"`
	Event     string `json:"event"`
	Reason    string `json:"reason"`
	FailedAt  string `json:"failed_at"`
}

// DLQProducer writes undeliverable payout events to a side topic instead of
// blocking the consumer group on them.
type DLQProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewDLQProducer returns a nil producer when no DLQ topic is configured;
// callers treat a nil producer as the queue being disabled.
func NewDLQProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		logger.Info("No DLQ topic configured, dead letters will be dropped")
		return nil, nil
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for dlq producer: %w", err)
	}
	defer conn.Close()

	if err := ensureTopic(conn, cfg.DLQTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	// Dead letters are rare and must not get lost, so writes are synchronous
	// and wait for all replicas
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &DLQProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.DLQTopic,
	}, nil
}

// PublishToDLQ parks the raw event on the dead letter topic under the same
// key it arrived with.
func (p *DLQProducer) PublishToDLQ(ctx context.Context, key string, event []byte, reason string) error {
	if p == nil || p.writer == nil {
		return ErrDLQDisabled
	}

	value, err := json.Marshal(deadLetter{
		ClientKey: key,
		Event:     string(event),
		Reason:    reason,
		FailedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "reason", Value: []byte(reason)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish dead letter",
			"topic", p.topic,
			"client_key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish dead letter to %s: %w", p.topic, err)
	}

	p.logger.Warn("Event moved to the dead letter queue",
		"topic", p.topic,
		"client_key", key,
		"reason", reason,
	)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dlq writer for topic %s: %w", p.topic, err)
	}
	return nil
}
