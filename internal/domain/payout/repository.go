package payout

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// Filter narrows payout listings. Zero values mean "any".
type Filter struct {
	ClientID uuid.UUID
	Type     shared.PayoutType
	Category shared.PayoutCategory
	Status   shared.PayoutStatus
}

// Repository manages the append-only payout log. Rows are never updated
// after creation.
type Repository interface {
	Create(ctx context.Context, p *Payout) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payout, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Payout, error)
	Count(ctx context.Context, filter Filter) (int64, error)

	// SumByCategory sums payout amounts for a category across all clients
	SumByCategory(ctx context.Context, category shared.PayoutCategory) (int64, error)

	// SumByClientAndCategory sums payout amounts for one client and category
	SumByClientAndCategory(ctx context.Context, clientID uuid.UUID, category shared.PayoutCategory) (int64, error)

	DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
