package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wealthvault-ledger/internal/domain/statement"
)

// StatementServiceImpl implements the StatementService interface on top of
// the archived read model. The archive trails the payout log by the outbox
// pipeline's latency; callers needing the authoritative log read it through
// the registry service instead.
type StatementServiceImpl struct {
	logger        *slog.Logger
	statementRepo statement.Repository
}

// NewStatementService creates a new statement service
func NewStatementService(logger *slog.Logger, statementRepo statement.Repository) StatementService {
	return &StatementServiceImpl{
		logger:        logger,
		statementRepo: statementRepo,
	}
}

// GetClientStatement retrieves archived entries for a client, optionally
// bounded to a payout date window
func (s *StatementServiceImpl) GetClientStatement(ctx context.Context, clientID uuid.UUID, from, to time.Time, page, perPage int) ([]*statement.Entry, int64, error) {
	offset := (page - 1) * perPage

	var entries []*statement.Entry
	var err error
	if from.IsZero() && to.IsZero() {
		entries, err = s.statementRepo.GetByClientID(ctx, clientID, perPage, offset)
	} else {
		if to.IsZero() {
			to = time.Now()
		}
		entries, err = s.statementRepo.GetByClientAndRange(ctx, clientID, from, to, perPage, offset)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.statementRepo.CountByClientID(ctx, clientID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
