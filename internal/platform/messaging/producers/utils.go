package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// ensureTopic creates the topic when the broker does not know it yet.
// Broker metadata can lag right after startup, so the partition read is
// retried before concluding the topic is missing.
func ensureTopic(conn *kafka.Conn, topic string, partitions, replication int, log *slog.Logger) error {
	var parts []kafka.Partition
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		parts, err = conn.ReadPartitions(topic)
		if err == nil {
			break
		}
		log.Warn("Failed to read partitions", "topic", topic, "attempt", attempt, "error", err)
		time.Sleep(2 * time.Second)
	}
	if len(parts) > 0 {
		return nil
	}

	if partitions == 0 {
		partitions = 1
	}
	if replication == 0 {
		replication = 1
	}

	log.Info("Creating Kafka topic", "topic", topic, "partitions", partitions, "replication", replication)
	creationErr := conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: replication,
	})
	if creationErr != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, creationErr)
	}
	return nil
}
