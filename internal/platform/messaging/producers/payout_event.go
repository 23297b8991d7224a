package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/wealthvault-ledger/internal/config"
)

type PayoutEventMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates a new payout event producer and ensures the topic exists
func NewPayoutEventMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*PayoutEventMessageProducer, error) {
	if cfg.PayoutEventTopic == "" {
		return nil, fmt.Errorf("kafka payout event topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for payout event producer: %w", err)
	}
	defer conn.Close()

	err = ensureTopic(conn, cfg.PayoutEventTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure payout event topic %s exists: %w", cfg.PayoutEventTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.PayoutEventTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.PayoutEventTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.PayoutEventTopic, "count", len(messages))
			}
		},
	}

	return &PayoutEventMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.PayoutEventTopic,
	}, nil
}

func (p *PayoutEventMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for payout event producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via payout event producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via payout event producer: %w", p.topic, err)
	}

	p.logger.Debug("Published message via payout event producer",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *PayoutEventMessageProducer) Close() error {
	p.logger.Info("Closing payout event Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close payout event kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
