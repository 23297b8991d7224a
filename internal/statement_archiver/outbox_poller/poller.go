package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wealthvault-ledger/internal/config"
	"github.com/wealthvault-ledger/internal/domain/outbox"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// Poller drains the outbox table into the payout event stream. Events that
// keep failing are marked failed_to_publish so they stop blocking the batch.
type Poller struct {
	outboxRepo       outbox.Repository
	archivePublisher ArchivePublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	archivePublisher ArchivePublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		archivePublisher: archivePublisher,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start polls until ctx is canceled.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping")
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Outbox batch failed", "error", err)
			}
		}
	}
}

// processPendingMessages publishes one batch. A single stubborn event does
// not fail the batch; it is retried on later ticks until the attempt cap.
func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	p.logger.Info("Publishing pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		if err := p.archivePublisher.PublishToArchive(ctx, msg); err != nil {
			p.recordFailure(ctx, msg, err)
			continue
		}
		p.logger.Info("Outbox message published",
			"outbox_id", msg.ID,
			"event_id", msg.EventID.String(),
		)
	}
	return nil
}

func (p *Poller) recordFailure(ctx context.Context, msg *outbox.Message, pubErr error) {
	p.logger.Error("Failed to publish outbox message",
		"outbox_id", msg.ID,
		"event_id", msg.EventID.String(),
		"current_attempts", msg.Attempts,
		"error", pubErr,
	)

	if err := p.outboxRepo.IncrementAttempts(ctx, msg.ID); err != nil {
		// Leave the attempt count as is; the message is picked up again on
		// the next tick
		p.logger.Error("Failed to increment attempts for outbox message", "outbox_id", msg.ID, "error", err)
		return
	}

	if msg.Attempts+1 >= p.maxRetryAttempts {
		p.logger.Warn("Outbox message exhausted its retries",
			"outbox_id", msg.ID,
			"event_id", msg.EventID.String(),
			"attempts_made", msg.Attempts+1,
		)
		if err := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); err != nil {
			p.logger.Error("Failed to mark outbox message as failed_to_publish", "outbox_id", msg.ID, "error", err)
		}
	}
}
