package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wealthvault-ledger/internal/domain/outbox"
	"github.com/wealthvault-ledger/internal/platform/messaging/producers"
	"github.com/wealthvault-ledger/internal/statement_archiver/service"
)

// PayoutEventHandler handles incoming ledger event messages from Kafka
type PayoutEventHandler struct {
	archiveService service.ArchiveService
	producer       producers.DeadLetterPublisher
	logger         *slog.Logger
}

// NewPayoutEventHandler creates a new handler
func NewPayoutEventHandler(
	logger *slog.Logger,
	archiveService service.ArchiveService,
	producer producers.DeadLetterPublisher,
) *PayoutEventHandler {
	return &PayoutEventHandler{
		archiveService: archiveService,
		producer:       producer,
		logger:         logger,
	}
}

// HandleMessage processes Kafka messages. Malformed or unhandleable messages
// go to the DLQ and commit; transient failures return an error so the offset
// stays uncommitted and the message is retried.
func (h *PayoutEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event outbox.Event
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal ledger event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	h.logger.Info("Received ledger event for archiving",
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
		"client_id", event.ClientID.String(),
	)

	if err := h.archiveService.ProcessEvent(ctx, &event); err != nil {
		// Events the archiver can never apply are dead-lettered so they
		// do not wedge the partition
		if errors.Is(err, service.ErrUnknownEventKind) || errors.Is(err, service.ErrMissingEntry) {
			h.logger.Error("Unprocessable ledger event", "event_id", event.EventID.String(), "error", err)
			if h.producer != nil {
				if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, err.Error()); dlqErr != nil {
					h.logger.Error("Failed to publish unprocessable event to DLQ", "event_id", event.EventID.String(), "dlq_error", dlqErr)
					return err
				}
				return nil
			}
			return nil
		}

		h.logger.Error("Failed to archive ledger event",
			"event_id", event.EventID.String(),
			"kind", string(event.Kind),
			"error", err,
		)
		return fmt.Errorf("archiving event %s failed: %w", event.EventID.String(), err)
	}

	h.logger.Info("Successfully archived ledger event", "event_id", event.EventID.String())
	return nil // Success, commit offset
}
