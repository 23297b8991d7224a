package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// Filter narrows request listings. Zero values mean "any".
type Filter struct {
	ClientID uuid.UUID
	Type     shared.RequestType
	Status   shared.RequestStatus
}

// Repository manages transaction request persistence
type Repository interface {
	Create(ctx context.Context, req *TransactionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*TransactionRequest, error)

	// LockForUpdate acquires a pessimistic lock on the request row so two
	// concurrent decisions serialize on the pending guard
	LockForUpdate(ctx context.Context, id uuid.UUID) (*TransactionRequest, error)

	List(ctx context.Context, filter Filter, limit, offset int) ([]*TransactionRequest, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Update(ctx context.Context, req *TransactionRequest) error
	DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
