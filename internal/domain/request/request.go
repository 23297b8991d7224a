package request

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

var (
	ErrInvalidAmount      = errors.New("request amount must be positive")
	ErrMissingInvestment  = errors.New("withdraw request requires an investment reference")
	ErrInvalidRequestType = errors.New("invalid transaction request type")
)

// TransactionRequest is a client-initiated ask awaiting an admin decision.
// pending is the only state with outgoing transitions; approved and rejected
// are terminal.
type TransactionRequest struct {
	ID           uuid.UUID            `json:"id"`
	ClientID     uuid.UUID            `json:"client_id"`
	InvestmentID *uuid.UUID           `json:"investment_id,omitempty"`
	Amount       int64                `json:"amount"`
	Type         shared.RequestType   `json:"type"`
	Status       shared.RequestStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	RespondedAt  *time.Time           `json:"responded_at,omitempty"`
}

// NewAddFunds creates a pending add-amount request
func NewAddFunds(clientID uuid.UUID, amount int64) (*TransactionRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &TransactionRequest{
		ID:        uuid.New(),
		ClientID:  clientID,
		Amount:    amount,
		Type:      shared.RequestTypeAddAmount,
		Status:    shared.RequestStatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// NewWithdraw creates a pending withdraw request referencing the investment
// to be released. The amount settled on approval is the investment's full
// amount at that time.
func NewWithdraw(clientID, investmentID uuid.UUID, amount int64) (*TransactionRequest, error) {
	if investmentID == uuid.Nil {
		return nil, ErrMissingInvestment
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &TransactionRequest{
		ID:           uuid.New(),
		ClientID:     clientID,
		InvestmentID: &investmentID,
		Amount:       amount,
		Type:         shared.RequestTypeWithdraw,
		Status:       shared.RequestStatusPending,
		CreatedAt:    time.Now(),
	}, nil
}

// Approve transitions pending → approved
func (r *TransactionRequest) Approve(at time.Time) error {
	return r.respond(shared.RequestStatusApproved, at)
}

// Reject transitions pending → rejected
func (r *TransactionRequest) Reject(at time.Time) error {
	return r.respond(shared.RequestStatusRejected, at)
}

func (r *TransactionRequest) respond(to shared.RequestStatus, at time.Time) error {
	if r.Status != shared.RequestStatusPending {
		return ErrInvalidStateTransition{RequestID: r.ID, Status: r.Status}
	}
	if at.IsZero() {
		at = time.Now()
	}
	r.Status = to
	r.RespondedAt = &at
	return nil
}

// ErrRequestNotFound indicates missing transaction request
type ErrRequestNotFound struct {
	RequestID uuid.UUID
}

func (e ErrRequestNotFound) Error() string {
	return "transaction request not found: " + e.RequestID.String()
}

// Is matches any ErrRequestNotFound when the target carries a nil id
func (e ErrRequestNotFound) Is(target error) bool {
	t, ok := target.(ErrRequestNotFound)
	if !ok {
		return false
	}
	if t.RequestID == uuid.Nil {
		return true
	}
	return e.RequestID == t.RequestID
}

// ErrInvalidStateTransition indicates a decision attempted on a non-pending
// request
type ErrInvalidStateTransition struct {
	RequestID uuid.UUID
	Status    shared.RequestStatus
}

func (e ErrInvalidStateTransition) Error() string {
	return "transaction request " + e.RequestID.String() + " is not pending (status: " + string(e.Status) + ")"
}

// Is matches any ErrInvalidStateTransition when the target carries a nil id
func (e ErrInvalidStateTransition) Is(target error) bool {
	t, ok := target.(ErrInvalidStateTransition)
	if !ok {
		return false
	}
	if t.RequestID == uuid.Nil {
		return true
	}
	return e.RequestID == t.RequestID
}
