package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/wealthvault-ledger/internal/config"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/investment"
	"github.com/wealthvault-ledger/internal/domain/outbox"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/request"
	"github.com/wealthvault-ledger/internal/domain/shared"
	"github.com/wealthvault-ledger/internal/domain/statement"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLedgerConfig() *config.LedgerConfig {
	return &config.LedgerConfig{
		MinimumDeposit: 150000,
		LockInPeriod:   365 * 24 * time.Hour,
		LockTimeout:    3 * time.Second,
	}
}

// stubTxRunner invokes the transaction function directly with a nil tx, or
// fails without invoking it when err is set. Mock repositories return
// themselves from WithTx, so nil is never dereferenced.
type stubTxRunner struct {
	err          error
	lockingCalls int
}

func (s *stubTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

func (s *stubTxRunner) ExecuteLockingTx(ctx context.Context, _ time.Duration, fn func(tx pgx.Tx) error) error {
	s.lockingCalls++
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *account.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*account.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Admin), args.Error(1)
}

func (m *MockAdminRepository) Update(ctx context.Context, admin *account.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Admin), args.Error(1)
}

func (m *MockAdminRepository) WithTx(tx pgx.Tx) account.AdminRepository {
	return m
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *account.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Client), args.Error(1)
}

func (m *MockClientRepository) GetByEmail(ctx context.Context, email string) (*account.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context, limit, offset int) ([]*account.Client, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Client), args.Error(1)
}

func (m *MockClientRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *account.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateProfile(ctx context.Context, client *account.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateBankDetails(ctx context.Context, clientID uuid.UUID, bank *account.BankDetails) error {
	args := m.Called(ctx, clientID, bank)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Client), args.Error(1)
}

func (m *MockClientRepository) WithTx(tx pgx.Tx) account.ClientRepository {
	return m
}

type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) Create(ctx context.Context, inv *investment.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*investment.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*investment.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]*investment.Investment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*investment.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) SumActiveByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvestmentRepository) SumActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvestmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status shared.InvestmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockInvestmentRepository) Update(ctx context.Context, inv *investment.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvestmentRepository) DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvestmentRepository) WithTx(tx pgx.Tx) investment.Repository {
	return m
}

type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) Create(ctx context.Context, p *payout.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

func (m *MockPayoutRepository) List(ctx context.Context, filter payout.Filter, limit, offset int) ([]*payout.Payout, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payout.Payout), args.Error(1)
}

func (m *MockPayoutRepository) Count(ctx context.Context, filter payout.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRepository) SumByCategory(ctx context.Context, category shared.PayoutCategory) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRepository) SumByClientAndCategory(ctx context.Context, clientID uuid.UUID, category shared.PayoutCategory) (int64, error) {
	args := m.Called(ctx, clientID, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRepository) DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRepository) WithTx(tx pgx.Tx) payout.Repository {
	return m
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, req *request.TransactionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*request.TransactionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.TransactionRequest), args.Error(1)
}

func (m *MockRequestRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*request.TransactionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.TransactionRequest), args.Error(1)
}

func (m *MockRequestRepository) List(ctx context.Context, filter request.Filter, limit, offset int) ([]*request.TransactionRequest, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.TransactionRequest), args.Error(1)
}

func (m *MockRequestRepository) Count(ctx context.Context, filter request.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRequestRepository) Update(ctx context.Context, req *request.TransactionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRequestRepository) WithTx(tx pgx.Tx) request.Repository {
	return m
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return m
}

type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) Upsert(ctx context.Context, entry *statement.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStatementRepository) GetByPayoutID(ctx context.Context, payoutID uuid.UUID) (*statement.Entry, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*statement.Entry), args.Error(1)
}

func (m *MockStatementRepository) GetByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*statement.Entry, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*statement.Entry), args.Error(1)
}

func (m *MockStatementRepository) CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatementRepository) GetByClientAndRange(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit, offset int) ([]*statement.Entry, error) {
	args := m.Called(ctx, clientID, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*statement.Entry), args.Error(1)
}

func (m *MockStatementRepository) DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// Fixture helpers shared by the service tests.

func newTestAdmin() *account.Admin {
	admin, _ := account.NewAdmin("ops@wealthvault.test", "hashed-password", "Ops Admin", "+911234567890")
	return admin
}

func newTestClient() *account.Client {
	bank, _ := account.NewBankDetails("HDFC", "00112233445566", "MG Road", "HDFC0001234")
	client, _ := account.NewClient("investor@wealthvault.test", "hashed-password", "Test Investor", "+919876543210", bank, time.Now())
	return client
}

func newTestInvestment(clientID uuid.UUID, amount int64, start time.Time) *investment.Investment {
	inv, _ := investment.NewInvestment(clientID, amount, start, time.Time{}, 150000, 365*24*time.Hour)
	return inv
}
