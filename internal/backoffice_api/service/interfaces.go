package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/investment"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/request"
	"github.com/wealthvault-ledger/internal/domain/statement"
)

// TxRunner runs functions inside database transactions. Satisfied by
// persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error

	// ExecuteLockingTx additionally bounds row lock waits; lock timeouts
	// surface as shared.ErrLedgerBusy
	ExecuteLockingTx(ctx context.Context, lockTimeout time.Duration, fn func(tx pgx.Tx) error) error
}

// OnboardClientParams carries everything needed to onboard a new client with
// their first investment
type OnboardClientParams struct {
	Email         string
	Password      string
	Name          string
	Phone         string
	BankName      string
	AccountNumber string
	BankBranch    string
	IFSCCode      string
	Amount        int64
	StartDate     time.Time
}

// RegistryService defines account registry operations: admin and client
// lookups, profile updates, and total recomputation from the payout log
type RegistryService interface {
	// CreateAdmin registers a new administrator
	// Returns ErrDuplicateEmail if the email is already registered
	CreateAdmin(ctx context.Context, email, password, name, phone string) (*account.Admin, error)

	// GetAdmin retrieves an admin with its cached totals.
	// Negative cached totals are clamped to zero and the correction persisted.
	GetAdmin(ctx context.Context, id uuid.UUID) (*account.Admin, error)

	// RecomputeAdminTotals rebuilds the admin's cached totals from the
	// investment and payout logs and persists the result
	RecomputeAdminTotals(ctx context.Context, id uuid.UUID) (*account.Admin, error)

	// GetClient retrieves a client with its cached totals, clamped like GetAdmin
	GetClient(ctx context.Context, id uuid.UUID) (*account.Client, error)

	// ListClients retrieves a paginated client listing with the total count
	ListClients(ctx context.Context, page, perPage int) ([]*account.Client, int64, error)

	// RecomputeClientTotals rebuilds the client's cached totals from the
	// investment and payout logs and persists the result
	RecomputeClientTotals(ctx context.Context, id uuid.UUID) (*account.Client, error)

	// UpdateClientProfile updates the client's contact fields
	UpdateClientProfile(ctx context.Context, id uuid.UUID, name, phone, email string) (*account.Client, error)

	// UpdateBankDetails replaces the client's settlement account details
	UpdateBankDetails(ctx context.Context, id uuid.UUID, bank *account.BankDetails) (*account.Client, error)

	// GetClientInvestments lists a client's investments, lazily expiring any
	// whose lock-in has elapsed
	GetClientInvestments(ctx context.Context, clientID uuid.UUID) ([]*investment.Investment, error)

	// ListPayouts retrieves a paginated, filtered view of the payout log
	ListPayouts(ctx context.Context, filter payout.Filter, page, perPage int) ([]*payout.Payout, int64, error)
}

// LedgerService defines the balance-affecting ledger operations. Every
// operation runs in one locking transaction: either all of its writes commit
// or none do.
type LedgerService interface {
	// OnboardClient creates a client with bank details and their first
	// locked investment, recording the deposit in the payout log
	OnboardClient(ctx context.Context, adminID uuid.UUID, params OnboardClientParams) (*account.Client, *investment.Investment, *payout.Payout, error)

	// AddFunds opens an additional locked investment for an existing client
	AddFunds(ctx context.Context, adminID, clientID uuid.UUID, amount int64, startDate time.Time) (*investment.Investment, *payout.Payout, error)

	// IssuePayout records an interest payout for the client with the given
	// email address
	IssuePayout(ctx context.Context, adminID uuid.UUID, clientEmail string, amount int64, payoutDate time.Time) (*payout.Payout, error)

	// WithdrawInvestment settles an investment directly, bypassing the
	// request workflow. Returns ErrFundsLocked inside the lock-in period.
	WithdrawInvestment(ctx context.Context, adminID, clientID, investmentID uuid.UUID) (*payout.Payout, error)

	// RenewInvestment restarts an investment's lock-in window from the
	// given date. Withdrawn investments and investments reserved by a
	// pending withdraw request cannot be renewed.
	RenewInvestment(ctx context.Context, clientID, investmentID uuid.UUID, on time.Time) (*investment.Investment, error)

	// DeleteClient removes the client and every record referencing it,
	// adjusts the firm totals, and emits a tombstone for the archive
	DeleteClient(ctx context.Context, adminID, clientID uuid.UUID) error
}

// WorkflowService defines the client-initiated transaction request workflow
type WorkflowService interface {
	// CreateRequest records a pending add-funds or withdraw request
	CreateRequest(ctx context.Context, clientID uuid.UUID, reqType string, amount int64, investmentID *uuid.UUID) (*request.TransactionRequest, error)

	// GetRequest retrieves a request by ID
	GetRequest(ctx context.Context, id uuid.UUID) (*request.TransactionRequest, error)

	// ListRequests retrieves a paginated, filtered request listing
	ListRequests(ctx context.Context, filter request.Filter, page, perPage int) ([]*request.TransactionRequest, int64, error)

	// ApproveRequest settles a pending request: add-funds opens an
	// investment, withdraw releases one. The decision and the ledger
	// mutation commit atomically.
	ApproveRequest(ctx context.Context, adminID, requestID uuid.UUID) (*request.TransactionRequest, *payout.Payout, error)

	// RejectRequest declines a pending request without touching balances
	RejectRequest(ctx context.Context, requestID uuid.UUID) (*request.TransactionRequest, error)
}

// StatementService serves the archived statement read model
type StatementService interface {
	// GetClientStatement retrieves archived entries for a client, optionally
	// bounded to a payout date window. Returns entries and the client's
	// total entry count.
	GetClientStatement(ctx context.Context, clientID uuid.UUID, from, to time.Time, page, perPage int) ([]*statement.Entry, int64, error)
}
