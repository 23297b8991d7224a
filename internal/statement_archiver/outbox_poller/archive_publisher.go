package outbox_poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/wealthvault-ledger/internal/domain/outbox"
	"github.com/wealthvault-ledger/internal/domain/shared"
	"github.com/wealthvault-ledger/internal/platform/messaging/producers"
)

// ArchivePublisher relays outbox messages toward the statement archive
type ArchivePublisher interface {
	PublishToArchive(ctx context.Context, message *outbox.Message) error
}

// ArchivePublisherImpl implements ArchivePublisher
type ArchivePublisherImpl struct {
	outboxRepo outbox.Repository
	publisher  producers.MessagePublisher
	logger     *slog.Logger
}

// NewArchivePublisher creates a new publisher
func NewArchivePublisher(
	outboxRepo outbox.Repository,
	publisher producers.MessagePublisher,
	logger *slog.Logger,
) ArchivePublisher {
	return &ArchivePublisherImpl{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// PublishToArchive publishes one outbox message to the event topic and marks
// it processed. Messages are keyed by client id so every client's events land
// on one partition and arrive at the archiver in order.
func (p *ArchivePublisherImpl) PublishToArchive(ctx context.Context, message *outbox.Message) error {
	var event outbox.Event
	if err := json.Unmarshal(message.Payload, &event); err != nil {
		p.logger.Error("Failed to unmarshal event from outbox payload",
			"outbox_id", message.ID, "event_id", message.EventID.String(), "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	p.logger.Info("Attempting to publish outbox message to event topic",
		"outbox_id", message.ID, "event_id", event.EventID.String(), "kind", string(event.Kind),
	)

	if err := p.publisher.Publish(ctx, message.ClientID.String(), &event); err != nil {
		p.logger.Error("Failed to publish event", "outbox_id", message.ID, "event_id", event.EventID.String(), "error", err)
		return fmt.Errorf("failed to publish event %s: %w", event.EventID.String(), err)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		p.logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", event.EventID.String(), "error", err,
		)
		return fmt.Errorf("publish for %s OK, but failed to mark outbox %d as PROCESSED: %w", event.EventID.String(), message.ID, err)
	}

	p.logger.Info("Outbox message successfully published and marked as PROCESSED", "outbox_id", message.ID, "event_id", event.EventID.String())
	return nil
}
