package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wealthvault-ledger/internal/domain/outbox"
	"github.com/wealthvault-ledger/internal/domain/shared"
	"github.com/wealthvault-ledger/internal/domain/statement"
)

var (
	// ErrUnknownEventKind indicates an event kind the archiver does not
	// handle. Such messages cannot succeed on retry.
	ErrUnknownEventKind = errors.New("unknown event kind")

	// ErrMissingEntry indicates a payout.recorded event without its
	// statement entry payload
	ErrMissingEntry = errors.New("payout.recorded event carries no statement entry")
)

// ArchiveServiceImpl applies outbox events to the MongoDB statement archive.
// The archive is derived state: replaying an event is safe because entries
// are upserted by payout id and deletions remove whatever is present.
type ArchiveServiceImpl struct {
	statementRepo statement.Repository
	logger        *slog.Logger
}

// NewArchiveService creates a new archive service
func NewArchiveService(logger *slog.Logger, statementRepo statement.Repository) ArchiveService {
	return &ArchiveServiceImpl{
		statementRepo: statementRepo,
		logger:        logger,
	}
}

// ProcessEvent dispatches one event to the archive
func (s *ArchiveServiceImpl) ProcessEvent(ctx context.Context, event *outbox.Event) error {
	logger := s.logger.With("event_id", event.EventID.String(), "kind", string(event.Kind), "client_id", event.ClientID.String())

	switch event.Kind {
	case shared.EventKindPayoutRecorded:
		if event.Entry == nil {
			logger.Error("Payout event without statement entry")
			return ErrMissingEntry
		}
		if err := s.statementRepo.Upsert(ctx, event.Entry); err != nil {
			logger.Error("Failed to upsert statement entry", "payout_id", event.Entry.PayoutID.String(), "error", err)
			return fmt.Errorf("failed to archive payout %s: %w", event.Entry.PayoutID.String(), err)
		}
		logger.Info("Archived statement entry", "payout_id", event.Entry.PayoutID.String())
		return nil

	case shared.EventKindClientDeleted:
		deleted, err := s.statementRepo.DeleteByClientID(ctx, event.ClientID)
		if err != nil {
			logger.Error("Failed to purge statement entries", "error", err)
			return fmt.Errorf("failed to purge statements for client %s: %w", event.ClientID.String(), err)
		}
		logger.Info("Purged statement entries for deleted client", "entries_deleted", deleted)
		return nil

	default:
		logger.Error("Unknown event kind")
		return fmt.Errorf("%w: %s", ErrUnknownEventKind, event.Kind)
	}
}
