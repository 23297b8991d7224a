package statement

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages the statement archive read model
type Repository interface {
	// Upsert writes an entry keyed by payout id; replaying the same event
	// is a no-op beyond refreshing the entry, which keeps the archiver
	// idempotent
	Upsert(ctx context.Context, entry *Entry) error

	GetByPayoutID(ctx context.Context, payoutID uuid.UUID) (*Entry, error)
	GetByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)

	// GetByClientAndRange serves statement rendering for a date window
	GetByClientAndRange(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit, offset int) ([]*Entry, error)

	// DeleteByClientID purges a deleted client's archive entries
	DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)
}
