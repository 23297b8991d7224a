package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wealthvault-ledger/internal/config"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/investment"
	"github.com/wealthvault-ledger/internal/domain/outbox"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/request"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// ledgerCore holds the repositories and policy shared by the ledger and
// workflow services. Its mutation helpers run inside a caller-owned
// transaction; callers are responsible for locking the admin and client rows
// first, always in that order.
type ledgerCore struct {
	logger     *slog.Logger
	cfg        *config.LedgerConfig
	adminRepo  account.AdminRepository
	clientRepo account.ClientRepository
	investRepo investment.Repository
	payoutRepo payout.Repository
	outboxRepo outbox.Repository
}

// openInvestment creates a locked investment for a client whose row is
// already locked, records the deposit in the payout log, and rolls the cached
// totals forward on both rows.
func (c *ledgerCore) openInvestment(ctx context.Context, tx pgx.Tx, admin *account.Admin, client *account.Client, amount int64, startDate time.Time) (*investment.Investment, *payout.Payout, error) {
	inv, err := investment.NewInvestment(client.ID, amount, startDate, time.Time{}, c.cfg.MinimumDeposit, c.cfg.LockInPeriod)
	if err != nil {
		return nil, nil, err
	}

	if err := c.investRepo.WithTx(tx).Create(ctx, inv); err != nil {
		return nil, nil, err
	}

	p, err := payout.New(client.ID, amount, shared.PayoutTypeCredit, shared.PayoutCategoryDeposit, inv.LockInStartDate, shared.PayoutStatusCompleted)
	if err != nil {
		return nil, nil, err
	}
	if err := c.payoutRepo.WithTx(tx).Create(ctx, p); err != nil {
		return nil, nil, err
	}

	if err := c.recordPayoutEvent(ctx, tx, p); err != nil {
		return nil, nil, err
	}

	if err := client.ApplyDeposit(amount); err != nil {
		return nil, nil, err
	}
	if err := c.clientRepo.WithTx(tx).Update(ctx, client); err != nil {
		return nil, nil, err
	}

	admin.ApplyFundsDelta(amount)
	if err := c.adminRepo.WithTx(tx).Update(ctx, admin); err != nil {
		return nil, nil, err
	}

	return inv, p, nil
}

// settleWithdrawal releases an investment belonging to the locked client,
// records the debit in the payout log, and rolls the cached totals forward.
func (c *ledgerCore) settleWithdrawal(ctx context.Context, tx pgx.Tx, admin *account.Admin, client *account.Client, investmentID uuid.UUID, now time.Time) (*payout.Payout, error) {
	inv, err := c.investRepo.WithTx(tx).LockForUpdate(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if inv.ClientID != client.ID {
		return nil, investment.ErrInvestmentNotFound{InvestmentID: investmentID}
	}

	if err := inv.Withdrawable(now); err != nil {
		return nil, err
	}

	p, err := payout.New(client.ID, inv.Amount, shared.PayoutTypeDebit, shared.PayoutCategoryWithdrawal, now, shared.PayoutStatusCompleted)
	if err != nil {
		return nil, err
	}
	if err := c.payoutRepo.WithTx(tx).Create(ctx, p); err != nil {
		return nil, err
	}

	if err := c.recordPayoutEvent(ctx, tx, p); err != nil {
		return nil, err
	}

	inv.Status = shared.InvestmentStatusWithdrawn
	inv.UpdatedAt = now
	if err := c.investRepo.WithTx(tx).Update(ctx, inv); err != nil {
		return nil, err
	}

	if err := client.ApplyWithdrawal(inv.Amount); err != nil {
		return nil, err
	}
	if err := c.clientRepo.WithTx(tx).Update(ctx, client); err != nil {
		return nil, err
	}

	admin.ApplyFundsDelta(-inv.Amount)
	if err := c.adminRepo.WithTx(tx).Update(ctx, admin); err != nil {
		return nil, err
	}

	return p, nil
}

// recordInterest appends an interest payout for the locked client and rolls
// the interest totals forward. Interest does not touch the balance or the
// funds under management.
func (c *ledgerCore) recordInterest(ctx context.Context, tx pgx.Tx, admin *account.Admin, client *account.Client, amount int64, payoutDate time.Time) (*payout.Payout, error) {
	p, err := payout.New(client.ID, amount, shared.PayoutTypeDebit, shared.PayoutCategoryInterest, payoutDate, shared.PayoutStatusCompleted)
	if err != nil {
		return nil, err
	}
	if err := c.payoutRepo.WithTx(tx).Create(ctx, p); err != nil {
		return nil, err
	}

	if err := c.recordPayoutEvent(ctx, tx, p); err != nil {
		return nil, err
	}

	if err := client.ApplyInterest(amount); err != nil {
		return nil, err
	}
	if err := c.clientRepo.WithTx(tx).Update(ctx, client); err != nil {
		return nil, err
	}

	admin.ApplyInterestDelta(amount)
	if err := c.adminRepo.WithTx(tx).Update(ctx, admin); err != nil {
		return nil, err
	}

	return p, nil
}

// recordPayoutEvent writes the outbox message that feeds the statement
// archive, in the same transaction as the payout itself
func (c *ledgerCore) recordPayoutEvent(ctx context.Context, tx pgx.Tx, p *payout.Payout) error {
	message, err := outbox.NewPayoutRecorded(p)
	if err != nil {
		return fmt.Errorf("failed to build payout event: %w", err)
	}
	return c.outboxRepo.WithTx(tx).Create(ctx, message)
}

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	ledgerCore
	db          TxRunner
	requestRepo request.Repository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	logger *slog.Logger,
	db TxRunner,
	cfg *config.LedgerConfig,
	adminRepo account.AdminRepository,
	clientRepo account.ClientRepository,
	investRepo investment.Repository,
	payoutRepo payout.Repository,
	outboxRepo outbox.Repository,
	requestRepo request.Repository,
) LedgerService {
	return &LedgerServiceImpl{
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

// OnboardClient creates a client with bank details and their first locked
// investment in one transaction
func (s *LedgerServiceImpl) OnboardClient(ctx context.Context, adminID uuid.UUID, params OnboardClientParams) (*account.Client, *investment.Investment, *payout.Payout, error) {
	if params.Amount < s.cfg.MinimumDeposit {
		return nil, nil, nil, investment.ErrBelowMinimumDeposit{Amount: params.Amount, Minimum: s.cfg.MinimumDeposit}
	}

	bank, err := account.NewBankDetails(params.BankName, params.AccountNumber, params.BankBranch, params.IFSCCode)
	if err != nil {
		return nil, nil, nil, err
	}

	// Hash outside the transaction; bcrypt is deliberately slow
	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	client, err := account.NewClient(params.Email, string(hashed), params.Name, params.Phone, bank, params.StartDate)
	if err != nil {
		return nil, nil, nil, err
	}

	var inv *investment.Investment
	var p *payout.Payout
	err = s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		admin, err := s.adminRepo.WithTx(tx).LockForUpdate(ctx, adminID)
		if err != nil {
			return err
		}

		if err := s.clientRepo.WithTx(tx).Create(ctx, client); err != nil {
			return err
		}

		inv, p, err = s.openInvestment(ctx, tx, admin, client, params.Amount, params.StartDate)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}

	s.logger.Info("Client onboarded",
		"client_id", client.ID.String(),
		"investment_id", inv.ID.String(),
		"amount", params.Amount,
	)
	return client, inv, p, nil
}

// AddFunds opens an additional locked investment for an existing client
func (s *LedgerServiceImpl) AddFunds(ctx context.Context, adminID, clientID uuid.UUID, amount int64, startDate time.Time) (*investment.Investment, *payout.Payout, error) {
	var inv *investment.Investment
	var p *payout.Payout
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		admin, err := s.adminRepo.WithTx(tx).LockForUpdate(ctx, adminID)
		if err != nil {
			return err
		}
		client, err := s.clientRepo.WithTx(tx).LockForUpdate(ctx, clientID)
		if err != nil {
			return err
		}

		inv, p, err = s.openInvestment(ctx, tx, admin, client, amount, startDate)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Funds added",
		"client_id", clientID.String(),
		"investment_id", inv.ID.String(),
		"amount", amount,
	)
	return inv, p, nil
}

// IssuePayout records an interest payout for the client with the given email
func (s *LedgerServiceImpl) IssuePayout(ctx context.Context, adminID uuid.UUID, clientEmail string, amount int64, payoutDate time.Time) (*payout.Payout, error) {
	if payoutDate.IsZero() {
		payoutDate = time.Now()
	}

	var p *payout.Payout
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		admin, err := s.adminRepo.WithTx(tx).LockForUpdate(ctx, adminID)
		if err != nil {
			return err
		}

		found, err := s.clientRepo.WithTx(tx).GetByEmail(ctx, clientEmail)
		if err != nil {
			return err
		}
		client, err := s.clientRepo.WithTx(tx).LockForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}

		p, err = s.recordInterest(ctx, tx, admin, client, amount, payoutDate)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Interest payout issued",
		"client_email", clientEmail,
		"payout_id", p.ID.String(),
		"reference", p.Reference,
		"amount", amount,
	)
	return p, nil
}

// WithdrawInvestment settles an investment directly, bypassing the request
// workflow
func (s *LedgerServiceImpl) WithdrawInvestment(ctx context.Context, adminID, clientID, investmentID uuid.UUID) (*payout.Payout, error) {
	now := time.Now()

	var p *payout.Payout
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		admin, err := s.adminRepo.WithTx(tx).LockForUpdate(ctx, adminID)
		if err != nil {
			return err
		}
		client, err := s.clientRepo.WithTx(tx).LockForUpdate(ctx, clientID)
		if err != nil {
			return err
		}

		p, err = s.settleWithdrawal(ctx, tx, admin, client, investmentID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Investment withdrawn",
		"client_id", clientID.String(),
		"investment_id", investmentID.String(),
		"payout_id", p.ID.String(),
	)
	return p, nil
}

// RenewInvestment restarts the lock-in window of an active or expired
// investment. No money moves, so neither account row is touched; the
// investment row lock serializes renewal against a concurrent settlement.
func (s *LedgerServiceImpl) RenewInvestment(ctx context.Context, clientID, investmentID uuid.UUID, on time.Time) (*investment.Investment, error) {
	if on.IsZero() {
		on = time.Now()
	}

	var inv *investment.Investment
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		var err error
		inv, err = s.investRepo.WithTx(tx).LockForUpdate(ctx, investmentID)
		if err != nil {
			return err
		}
		if inv.ClientID != clientID {
			return investment.ErrInvestmentNotFound{InvestmentID: investmentID}
		}

		switch inv.Status {
		case shared.InvestmentStatusWithdrawn:
			return investment.ErrAlreadyWithdrawn{InvestmentID: inv.ID}
		case shared.InvestmentStatusWithdrawalRequested:
			return investment.ErrWithdrawalPending{InvestmentID: inv.ID}
		}

		inv.Renew(on, s.cfg.LockInPeriod)
		return s.investRepo.WithTx(tx).Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Investment renewed",
		"client_id", clientID.String(),
		"investment_id", investmentID.String(),
		"lock_in_end_date", inv.LockInEndDate,
	)
	return inv, nil
}

// DeleteClient removes the client and every record referencing it, adjusts
// the firm totals, and emits a tombstone so the archive purges its entries
func (s *LedgerServiceImpl) DeleteClient(ctx context.Context, adminID, clientID uuid.UUID) error {
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		admin, err := s.adminRepo.WithTx(tx).LockForUpdate(ctx, adminID)
		if err != nil {
			return err
		}
		client, err := s.clientRepo.WithTx(tx).LockForUpdate(ctx, clientID)
		if err != nil {
			return err
		}

		activeFunds, err := s.investRepo.WithTx(tx).SumActiveByClientID(ctx, client.ID)
		if err != nil {
			return err
		}
		interestPaid, err := s.payoutRepo.WithTx(tx).SumByClientAndCategory(ctx, client.ID, shared.PayoutCategoryInterest)
		if err != nil {
			return err
		}

		if _, err := s.requestRepo.WithTx(tx).DeleteByClientID(ctx, client.ID); err != nil {
			return err
		}
		if _, err := s.payoutRepo.WithTx(tx).DeleteByClientID(ctx, client.ID); err != nil {
			return err
		}
		if _, err := s.investRepo.WithTx(tx).DeleteByClientID(ctx, client.ID); err != nil {
			return err
		}
		if err := s.clientRepo.WithTx(tx).Delete(ctx, client.ID); err != nil {
			return err
		}

		admin.ApplyFundsDelta(-activeFunds)
		admin.ApplyInterestDelta(-interestPaid)
		if err := s.adminRepo.WithTx(tx).Update(ctx, admin); err != nil {
			return err
		}

		message, err := outbox.NewClientDeleted(client.ID)
		if err != nil {
			return fmt.Errorf("failed to build client deleted event: %w", err)
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Client deleted", "client_id", clientID.String())
	return nil
}
