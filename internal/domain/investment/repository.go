package investment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// Repository manages investment persistence. Sum queries back the recompute
// contract of the account registry.
type Repository interface {
	Create(ctx context.Context, inv *Investment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// LockForUpdate acquires a pessimistic lock on the investment row for
	// the withdrawal transition
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Investment, error)

	GetByClientID(ctx context.Context, clientID uuid.UUID) ([]*Investment, error)

	// SumActiveByClientID sums non-withdrawn investment amounts for a client
	SumActiveByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)

	// SumActive sums all non-withdrawn investment amounts across clients
	SumActive(ctx context.Context) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status shared.InvestmentStatus) error
	Update(ctx context.Context, inv *Investment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
