package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wealthvault-ledger/internal/backoffice_api/service"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/domain/investment"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/request"
	"github.com/wealthvault-ledger/internal/domain/statement"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.Default()
}

type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) CreateAdmin(ctx context.Context, email, password, name, phone string) (*account.Admin, error) {
	args := m.Called(ctx, email, password, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Admin), args.Error(1)
}

func (m *MockRegistryService) GetAdmin(ctx context.Context, id uuid.UUID) (*account.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Admin), args.Error(1)
}

func (m *MockRegistryService) RecomputeAdminTotals(ctx context.Context, id uuid.UUID) (*account.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Admin), args.Error(1)
}

func (m *MockRegistryService) GetClient(ctx context.Context, id uuid.UUID) (*account.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Client), args.Error(1)
}

func (m *MockRegistryService) ListClients(ctx context.Context, page, perPage int) ([]*account.Client, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*account.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockRegistryService) RecomputeClientTotals(ctx context.Context, id uuid.UUID) (*account.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Client), args.Error(1)
}

func (m *MockRegistryService) UpdateClientProfile(ctx context.Context, id uuid.UUID, name, phone, email string) (*account.Client, error) {
	args := m.Called(ctx, id, name, phone, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Client), args.Error(1)
}

func (m *MockRegistryService) UpdateBankDetails(ctx context.Context, id uuid.UUID, bank *account.BankDetails) (*account.Client, error) {
	args := m.Called(ctx, id, bank)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Client), args.Error(1)
}

func (m *MockRegistryService) GetClientInvestments(ctx context.Context, clientID uuid.UUID) ([]*investment.Investment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*investment.Investment), args.Error(1)
}

func (m *MockRegistryService) ListPayouts(ctx context.Context, filter payout.Filter, page, perPage int) ([]*payout.Payout, int64, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*payout.Payout), args.Get(1).(int64), args.Error(2)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) OnboardClient(ctx context.Context, adminID uuid.UUID, params service.OnboardClientParams) (*account.Client, *investment.Investment, *payout.Payout, error) {
	args := m.Called(ctx, adminID, params)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*account.Client), args.Get(1).(*investment.Investment), args.Get(2).(*payout.Payout), args.Error(3)
}

func (m *MockLedgerService) AddFunds(ctx context.Context, adminID, clientID uuid.UUID, amount int64, startDate time.Time) (*investment.Investment, *payout.Payout, error) {
	args := m.Called(ctx, adminID, clientID, amount, startDate)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*investment.Investment), args.Get(1).(*payout.Payout), args.Error(2)
}

func (m *MockLedgerService) IssuePayout(ctx context.Context, adminID uuid.UUID, clientEmail string, amount int64, payoutDate time.Time) (*payout.Payout, error) {
	args := m.Called(ctx, adminID, clientEmail, amount, payoutDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

func (m *MockLedgerService) WithdrawInvestment(ctx context.Context, adminID, clientID, investmentID uuid.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, adminID, clientID, investmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

func (m *MockLedgerService) RenewInvestment(ctx context.Context, clientID, investmentID uuid.UUID, on time.Time) (*investment.Investment, error) {
	args := m.Called(ctx, clientID, investmentID, on)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*investment.Investment), args.Error(1)
}

func (m *MockLedgerService) DeleteClient(ctx context.Context, adminID, clientID uuid.UUID) error {
	args := m.Called(ctx, adminID, clientID)
	return args.Error(0)
}

type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) CreateRequest(ctx context.Context, clientID uuid.UUID, reqType string, amount int64, investmentID *uuid.UUID) (*request.TransactionRequest, error) {
	args := m.Called(ctx, clientID, reqType, amount, investmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.TransactionRequest), args.Error(1)
}

func (m *MockWorkflowService) GetRequest(ctx context.Context, id uuid.UUID) (*request.TransactionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.TransactionRequest), args.Error(1)
}

func (m *MockWorkflowService) ListRequests(ctx context.Context, filter request.Filter, page, perPage int) ([]*request.TransactionRequest, int64, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*request.TransactionRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockWorkflowService) ApproveRequest(ctx context.Context, adminID, requestID uuid.UUID) (*request.TransactionRequest, *payout.Payout, error) {
	args := m.Called(ctx, adminID, requestID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var p *payout.Payout
	if args.Get(1) != nil {
		p = args.Get(1).(*payout.Payout)
	}
	return args.Get(0).(*request.TransactionRequest), p, args.Error(2)
}

func (m *MockWorkflowService) RejectRequest(ctx context.Context, requestID uuid.UUID) (*request.TransactionRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.TransactionRequest), args.Error(1)
}

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) GetClientStatement(ctx context.Context, clientID uuid.UUID, from, to time.Time, page, perPage int) ([]*statement.Entry, int64, error) {
	args := m.Called(ctx, clientID, from, to, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*statement.Entry), args.Get(1).(int64), args.Error(2)
}
