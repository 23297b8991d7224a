package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wealthvault-ledger/internal/config"
)

// MessageHandler processes one payout event. A non-nil return leaves the
// offset uncommitted so the event is delivered again.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer is the archive side of the payout event stream.
type Consumer interface {
	Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error
	Close() error
}

// KafkaConsumer reads payout events from Kafka in a consumer group, so
// several archiver instances can split the partitions between them.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

func NewKafkaConsumer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	return &KafkaConsumer{
		logger: logger,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.PayoutEventTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: kafka.FirstOffset,
		}),
	}
}

// Subscribe starts the fetch loop in the background and returns immediately.
// The loop runs until ctx is canceled.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error {
	log := c.logger.With("topic", topic, "group_id", groupID)
	log.Info("Listening for payout events")

	go c.run(ctx, log, handler)
	return nil
}

func (c *KafkaConsumer) run(ctx context.Context, log *slog.Logger, handler MessageHandler) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Stopping payout event consumer")
				return
			}
			log.Error("Failed to fetch payout event", "error", err)
			time.Sleep(time.Second)
			continue
		}

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			// Leave the offset where it is; the event comes back on the
			// next fetch or ends up in the dead letter queue
			log.Error("Payout event not processed",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"client_id", string(msg.Key),
				"error", err,
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error("Failed to commit offset",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
