package payout

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

var ErrNegativeAmount = errors.New("payout amount cannot be negative")

// Payout is an immutable ledger entry recording a single money movement.
// Credit entries record money into the fund, debit entries money out; the
// category tells deposits, withdrawals, and interest apart when totals are
// recomputed from the log.
type Payout struct {
	ID         uuid.UUID             `json:"id"`
	ClientID   uuid.UUID             `json:"client_id"`
	Amount     int64                 `json:"amount"`
	Type       shared.PayoutType     `json:"type"`
	Category   shared.PayoutCategory `json:"category"`
	Reference  string                `json:"reference"`
	PayoutDate time.Time             `json:"payout_date"`
	Status     shared.PayoutStatus   `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
}

// New creates a payout entry with a generated reference code. The status
// starts at the given value so settled movements can be recorded as completed
// directly.
func New(clientID uuid.UUID, amount int64, payoutType shared.PayoutType, category shared.PayoutCategory, payoutDate time.Time, status shared.PayoutStatus) (*Payout, error) {
	if amount < 0 {
		return nil, ErrNegativeAmount
	}
	if payoutDate.IsZero() {
		payoutDate = time.Now()
	}
	if status == "" {
		status = shared.PayoutStatusPending
	}

	id := uuid.New()
	return &Payout{
		ID:         id,
		ClientID:   clientID,
		Amount:     amount,
		Type:       payoutType,
		Category:   category,
		Reference:  referenceFor(category, id),
		PayoutDate: payoutDate,
		Status:     status,
		CreatedAt:  time.Now(),
	}, nil
}

// referenceFor builds a stable caller-facing reference code, e.g. WDR-1A2B3C4D
func referenceFor(category shared.PayoutCategory, id uuid.UUID) string {
	prefix := "PAY"
	switch category {
	case shared.PayoutCategoryDeposit:
		prefix = "DEP"
	case shared.PayoutCategoryWithdrawal:
		prefix = "WDR"
	case shared.PayoutCategoryInterest:
		prefix = "INT"
	}
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:8]
	return prefix + "-" + short
}

// ErrPayoutNotFound indicates missing payout entry
type ErrPayoutNotFound struct {
	PayoutID uuid.UUID
}

func (e ErrPayoutNotFound) Error() string {
	return "payout not found: " + e.PayoutID.String()
}

// Is matches any ErrPayoutNotFound when the target carries a nil id
func (e ErrPayoutNotFound) Is(target error) bool {
	t, ok := target.(ErrPayoutNotFound)
	if !ok {
		return false
	}
	if t.PayoutID == uuid.Nil {
		return true
	}
	return e.PayoutID == t.PayoutID
}
