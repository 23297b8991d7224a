package consumers

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthvault-ledger/internal/config"
)

// The kafka.Reader only exposes its config through a live broker, so the
// fetch loop itself is covered by integration runs, not here.
func TestNewKafkaConsumer(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := &config.KafkaConfig{
		Brokers:          "localhost:9092",
		PayoutEventTopic: "payout-events",
		ConsumerGroup:    "statement-archiver",
		MinBytes:         1024,
		MaxBytes:         10240,
		MaxWait:          time.Second,
	}

	consumer := NewKafkaConsumer(context.Background(), logger, cfg)
	require.NotNil(t, consumer)
	assert.NotNil(t, consumer.reader)
}

func TestKafkaConsumer_Close(t *testing.T) {
	t.Run("NilReader", func(t *testing.T) {
		consumer := &KafkaConsumer{logger: slog.New(slog.NewJSONHandler(os.Stdout, nil))}
		assert.NoError(t, consumer.Close())
	})
}
