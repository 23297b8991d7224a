package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wealthvault-ledger/internal/config"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/investment"
	"github.com/wealthvault-ledger/internal/domain/outbox"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/request"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// WorkflowServiceImpl implements the WorkflowService interface. Approvals
// settle through the same transition helpers as the direct ledger operations,
// so both paths produce identical log entries and total updates.
type WorkflowServiceImpl struct {
	ledgerCore
	db          TxRunner
	requestRepo request.Repository
}

// NewWorkflowService creates a new transaction request workflow service
func NewWorkflowService(
	logger *slog.Logger,
	db TxRunner,
	cfg *config.LedgerConfig,
	adminRepo account.AdminRepository,
	clientRepo account.ClientRepository,
	investRepo investment.Repository,
	payoutRepo payout.Repository,
	outboxRepo outbox.Repository,
	requestRepo request.Repository,
) WorkflowService {
	return &WorkflowServiceImpl{
		ledgerCore: ledgerCore{
			logger:     logger,
			cfg:        cfg,
			adminRepo:  adminRepo,
			clientRepo: clientRepo,
			investRepo: investRepo,
			payoutRepo: payoutRepo,
			outboxRepo: outboxRepo,
		},
		db:          db,
		requestRepo: requestRepo,
	}
}

// CreateRequest records a pending add-funds or withdraw request. Withdraw
// requests flag the referenced investment so it cannot be settled twice.
func (s *WorkflowServiceImpl) CreateRequest(ctx context.Context, clientID uuid.UUID, reqType string, amount int64, investmentID *uuid.UUID) (*request.TransactionRequest, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	switch shared.RequestType(reqType) {
	case shared.RequestTypeAddAmount:
		if amount < s.cfg.MinimumDeposit {
			return nil, investment.ErrBelowMinimumDeposit{Amount: amount, Minimum: s.cfg.MinimumDeposit}
		}

		req, err := request.NewAddFunds(clientID, amount)
		if err != nil {
			return nil, err
		}
		if err := s.requestRepo.Create(ctx, req); err != nil {
			return nil, err
		}

		s.logger.Info("Add funds request created",
			"request_id", req.ID.String(),
			"client_id", clientID.String(),
			"amount", amount,
		)
		return req, nil

	case shared.RequestTypeWithdraw:
		if investmentID == nil {
			return nil, request.ErrMissingInvestment
		}

		var req *request.TransactionRequest
		now := time.Now()
		err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
			inv, err := s.investRepo.WithTx(tx).LockForUpdate(ctx, *investmentID)
			if err != nil {
				return err
			}
			if inv.ClientID != clientID {
				return investment.ErrInvestmentNotFound{InvestmentID: *investmentID}
			}
			if err := inv.Withdrawable(now); err != nil {
				return err
			}

			req, err = request.NewWithdraw(clientID, inv.ID, inv.Amount)
			if err != nil {
				return err
			}
			if err := s.requestRepo.WithTx(tx).Create(ctx, req); err != nil {
				return err
			}

			inv.Status = shared.InvestmentStatusWithdrawalRequested
			inv.UpdatedAt = now
			return s.investRepo.WithTx(tx).Update(ctx, inv)
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("Withdraw request created",
			"request_id", req.ID.String(),
			"client_id", clientID.String(),
			"investment_id", investmentID.String(),
		)
		return req, nil

	default:
		return nil, request.ErrInvalidRequestType
	}
}

// GetRequest retrieves a request by ID
func (s *WorkflowServiceImpl) GetRequest(ctx context.Context, id uuid.UUID) (*request.TransactionRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

// ListRequests retrieves a paginated, filtered request listing with the
// total matching count
func (s *WorkflowServiceImpl) ListRequests(ctx context.Context, filter request.Filter, page, perPage int) ([]*request.TransactionRequest, int64, error) {
	offset := (page - 1) * perPage

	requests, err := s.requestRepo.List(ctx, filter, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ApproveRequest settles a pending request. The status transition and the
// resulting ledger mutation commit in one transaction, so a request can never
// be marked approved without its balance effect, or settled twice.
func (s *WorkflowServiceImpl) ApproveRequest(ctx context.Context, adminID, requestID uuid.UUID) (*request.TransactionRequest, *payout.Payout, error) {
	now := time.Now()

	var req *request.TransactionRequest
	var p *payout.Payout
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		admin, err := s.adminRepo.WithTx(tx).LockForUpdate(ctx, adminID)
		if err != nil {
			return err
		}

		req, err = s.requestRepo.WithTx(tx).LockForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := req.Approve(now); err != nil {
			return err
		}

		client, err := s.clientRepo.WithTx(tx).LockForUpdate(ctx, req.ClientID)
		if err != nil {
			return err
		}

		switch req.Type {
		case shared.RequestTypeAddAmount:
			// The lock-in clock starts when the client asked, not when
			// the admin got around to approving.
			_, p, err = s.openInvestment(ctx, tx, admin, client, req.Amount, req.CreatedAt)
		case shared.RequestTypeWithdraw:
			p, err = s.settleWithdrawal(ctx, tx, admin, client, *req.InvestmentID, now)
		default:
			err = request.ErrInvalidRequestType
		}
		if err != nil {
			return err
		}

		return s.requestRepo.WithTx(tx).Update(ctx, req)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Request approved",
		"request_id", requestID.String(),
		"type", string(req.Type),
		"payout_id", p.ID.String(),
	)
	return req, p, nil
}

// RejectRequest declines a pending request. A rejected withdraw request
// releases the investment's withdrawal flag.
func (s *WorkflowServiceImpl) RejectRequest(ctx context.Context, requestID uuid.UUID) (*request.TransactionRequest, error) {
	now := time.Now()

	var req *request.TransactionRequest
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		var err error
		req, err = s.requestRepo.WithTx(tx).LockForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := req.Reject(now); err != nil {
			return err
		}

		if req.Type == shared.RequestTypeWithdraw && req.InvestmentID != nil {
			inv, err := s.investRepo.WithTx(tx).LockForUpdate(ctx, *req.InvestmentID)
			if err != nil {
				return err
			}
			if inv.Status == shared.InvestmentStatusWithdrawalRequested {
				inv.Status = shared.InvestmentStatusLocked
				inv.Refresh(now)
				inv.UpdatedAt = now
				if err := s.investRepo.WithTx(tx).Update(ctx, inv); err != nil {
					return err
				}
			}
		}

		return s.requestRepo.WithTx(tx).Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Request rejected", "request_id", requestID.String())
	return req, nil
}
