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
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// RegistryServiceImpl implements the RegistryService interface
type RegistryServiceImpl struct {
	logger     *slog.Logger
	db         TxRunner
	cfg        *config.LedgerConfig
	adminRepo  account.AdminRepository
	clientRepo account.ClientRepository
	investRepo investment.Repository
	payoutRepo payout.Repository
}

// NewRegistryService creates a new account registry service
func NewRegistryService(
	logger *slog.Logger,
	db TxRunner,
	cfg *config.LedgerConfig,
	adminRepo account.AdminRepository,
	clientRepo account.ClientRepository,
	investRepo investment.Repository,
	payoutRepo payout.Repository,
) RegistryService {
	return &RegistryServiceImpl{
		logger:     logger,
		db:         db,
		cfg:        cfg,
		adminRepo:  adminRepo,
		clientRepo: clientRepo,
		investRepo: investRepo,
		payoutRepo: payoutRepo,
	}
}

// CreateAdmin registers a new administrator with zeroed totals
func (s *RegistryServiceImpl) CreateAdmin(ctx context.Context, email, password, name, phone string) (*account.Admin, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := account.NewAdmin(email, string(hashed), name, phone)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin created", "admin_id", admin.ID.String(), "email", email)
	return admin, nil
}

// GetAdmin retrieves an admin. Negative cached totals are clamped to zero
// and the correction persisted before returning.
func (s *RegistryServiceImpl) GetAdmin(ctx context.Context, id uuid.UUID) (*account.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if admin.NormalizeTotals() {
		s.logger.Warn("Clamped negative admin totals", "admin_id", id.String())
		err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
			locked, err := s.adminRepo.WithTx(tx).LockForUpdate(ctx, id)
			if err != nil {
				return err
			}
			// Re-check under the lock; a concurrent mutation may have
			// corrected the totals already
			if locked.NormalizeTotals() {
				locked.UpdatedAt = time.Now()
				if err := s.adminRepo.WithTx(tx).Update(ctx, locked); err != nil {
					return err
				}
			}
			admin = locked
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return admin, nil
}

// RecomputeAdminTotals rebuilds the admin's cached totals from the investment
// and payout logs. The recompute runs in a locking transaction so concurrent
// ledger operations cannot interleave between the sums and the write-back.
func (s *RegistryServiceImpl) RecomputeAdminTotals(ctx context.Context, id uuid.UUID) (*account.Admin, error) {
	var admin *account.Admin
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		var err error
		admin, err = s.adminRepo.WithTx(tx).LockForUpdate(ctx, id)
		if err != nil {
			return err
		}

		funds, err := s.investRepo.WithTx(tx).SumActive(ctx)
		if err != nil {
			return err
		}
		interest, err := s.payoutRepo.WithTx(tx).SumByCategory(ctx, shared.PayoutCategoryInterest)
		if err != nil {
			return err
		}

		admin.TotalFunds = funds
		admin.TotalInterest = interest
		admin.NormalizeTotals()
		admin.UpdatedAt = time.Now()
		return s.adminRepo.WithTx(tx).Update(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin totals recomputed",
		"admin_id", id.String(),
		"total_funds", admin.TotalFunds,
		"total_interest", admin.TotalInterest,
	)
	return admin, nil
}

// GetClient retrieves a client, clamping and persisting negative cached
// totals like GetAdmin does
func (s *RegistryServiceImpl) GetClient(ctx context.Context, id uuid.UUID) (*account.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if client.NormalizeTotals() {
		s.logger.Warn("Clamped negative client totals", "client_id", id.String())
		err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
			locked, err := s.clientRepo.WithTx(tx).LockForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if locked.NormalizeTotals() {
				locked.UpdatedAt = time.Now()
				if err := s.clientRepo.WithTx(tx).Update(ctx, locked); err != nil {
					return err
				}
			}
			// LockForUpdate reads the bare row; keep the joined bank details
			locked.BankDetails = client.BankDetails
			client = locked
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return client, nil
}

// ListClients retrieves a paginated client listing with the total count
func (s *RegistryServiceImpl) ListClients(ctx context.Context, page, perPage int) ([]*account.Client, int64, error) {
	offset := (page - 1) * perPage

	clients, err := s.clientRepo.List(ctx, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.clientRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// RecomputeClientTotals rebuilds the client's cached totals from the
// investment and payout logs and persists the result
func (s *RegistryServiceImpl) RecomputeClientTotals(ctx context.Context, id uuid.UUID) (*account.Client, error) {
	var client *account.Client
	err := s.db.ExecuteLockingTx(ctx, s.cfg.LockTimeout, func(tx pgx.Tx) error {
		var err error
		client, err = s.clientRepo.WithTx(tx).LockForUpdate(ctx, id)
		if err != nil {
			return err
		}

		invested, err := s.investRepo.WithTx(tx).SumActiveByClientID(ctx, id)
		if err != nil {
			return err
		}
		withdrawn, err := s.payoutRepo.WithTx(tx).SumByClientAndCategory(ctx, id, shared.PayoutCategoryWithdrawal)
		if err != nil {
			return err
		}
		interest, err := s.payoutRepo.WithTx(tx).SumByClientAndCategory(ctx, id, shared.PayoutCategoryInterest)
		if err != nil {
			return err
		}

		client.SetTotals(invested, withdrawn, interest)
		client.NormalizeTotals()
		return s.clientRepo.WithTx(tx).Update(ctx, client)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Client totals recomputed",
		"client_id", id.String(),
		"total_investment", client.TotalInvestment,
		"total_balance", client.TotalBalance,
	)
	return client, nil
}

// UpdateClientProfile updates the client's contact fields. Empty fields keep
// their current values.
func (s *RegistryServiceImpl) UpdateClientProfile(ctx context.Context, id uuid.UUID, name, phone, email string) (*account.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		client.Name = name
	}
	if phone != "" {
		client.Phone = phone
	}
	if email != "" {
		client.Email = email
	}
	client.UpdatedAt = time.Now()

	if err := s.clientRepo.UpdateProfile(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// UpdateBankDetails replaces the client's settlement account details
func (s *RegistryServiceImpl) UpdateBankDetails(ctx context.Context, id uuid.UUID, bank *account.BankDetails) (*account.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.UpdateBankDetails(ctx, id, bank); err != nil {
		return nil, err
	}

	client.BankDetails = bank
	return client, nil
}

// GetClientInvestments lists a client's investments, lazily expiring any
// whose lock-in has elapsed and persisting the transition
func (s *RegistryServiceImpl) GetClientInvestments(ctx context.Context, clientID uuid.UUID) ([]*investment.Investment, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	investments, err := s.investRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, inv := range investments {
		if inv.Refresh(now) {
			if err := s.investRepo.UpdateStatus(ctx, inv.ID, inv.Status); err != nil {
				s.logger.Error("Failed to persist investment expiry",
					"investment_id", inv.ID.String(),
					"error", err,
				)
			}
		}
	}

	return investments, nil
}

// ListPayouts retrieves a paginated, filtered view of the payout log with
// the total matching count
func (s *RegistryServiceImpl) ListPayouts(ctx context.Context, filter payout.Filter, page, perPage int) ([]*payout.Payout, int64, error) {
	offset := (page - 1) * perPage

	payouts, err := s.payoutRepo.List(ctx, filter, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.payoutRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return payouts, total, nil
}
