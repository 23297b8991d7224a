package service

import (
	"context"

	"github.com/wealthvault-ledger/internal/domain/outbox"
)

// ArchiveService applies ledger events to the statement archive.
type ArchiveService interface {
	ProcessEvent(ctx context.Context, event *outbox.Event) error
}
