package investment

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// DefaultLockInPeriod is the interval during which an investment cannot be
// withdrawn when no explicit end date is supplied.
const DefaultLockInPeriod = 365 * 24 * time.Hour

// Investment represents one locked deposit in the event log
type Investment struct {
	ID              uuid.UUID               `json:"id"`
	ClientID        uuid.UUID               `json:"client_id"`
	Amount          int64                   `json:"amount"`
	LockInStartDate time.Time               `json:"lock_in_start_date"`
	LockInEndDate   time.Time               `json:"lock_in_end_date"`
	IsRenewed       bool                    `json:"is_renewed"`
	RenewedOn       *time.Time              `json:"renewed_on,omitempty"`
	Status          shared.InvestmentStatus `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// NewInvestment creates a locked investment. The lock-in end date defaults to
// start + lockInPeriod when the zero value is supplied.
func NewInvestment(clientID uuid.UUID, amount int64, startDate time.Time, endDate time.Time, minimumDeposit int64, lockInPeriod time.Duration) (*Investment, error) {
	if amount < minimumDeposit {
		return nil, ErrBelowMinimumDeposit{Amount: amount, Minimum: minimumDeposit}
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}
	if lockInPeriod <= 0 {
		lockInPeriod = DefaultLockInPeriod
	}
	if endDate.IsZero() {
		endDate = startDate.Add(lockInPeriod)
	}

	now := time.Now()
	return &Investment{
		ID:              uuid.New(),
		ClientID:        clientID,
		Amount:          amount,
		LockInStartDate: startDate,
		LockInEndDate:   endDate,
		Status:          shared.InvestmentStatusLocked,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Refresh transitions locked investments whose lock-in has elapsed to expired.
// Expiry is not swept in the background; it is evaluated lazily here.
// Reports whether the status changed.
func (i *Investment) Refresh(now time.Time) bool {
	if i.Status == shared.InvestmentStatusLocked && now.After(i.LockInEndDate) {
		i.Status = shared.InvestmentStatusExpired
		i.UpdatedAt = now
		return true
	}
	return false
}

// Withdrawable returns ErrFundsLocked while the investment is inside its
// lock-in period and ErrAlreadyWithdrawn once it has been paid out
func (i *Investment) Withdrawable(now time.Time) error {
	if i.Status == shared.InvestmentStatusWithdrawn {
		return ErrAlreadyWithdrawn{InvestmentID: i.ID}
	}
	i.Refresh(now)
	if i.Status == shared.InvestmentStatusLocked {
		return ErrFundsLocked{InvestmentID: i.ID, LockInEndDate: i.LockInEndDate}
	}
	return nil
}

// Renew restarts the lock-in window from the given date
func (i *Investment) Renew(on time.Time, lockInPeriod time.Duration) {
	if lockInPeriod <= 0 {
		lockInPeriod = DefaultLockInPeriod
	}
	i.LockInStartDate = on
	i.LockInEndDate = on.Add(lockInPeriod)
	i.IsRenewed = true
	renewed := on
	i.RenewedOn = &renewed
	i.Status = shared.InvestmentStatusLocked
	i.UpdatedAt = time.Now()
}

// ErrInvestmentNotFound indicates missing investment
type ErrInvestmentNotFound struct {
	InvestmentID uuid.UUID
}

func (e ErrInvestmentNotFound) Error() string {
	return "investment not found: " + e.InvestmentID.String()
}

// Is matches any ErrInvestmentNotFound when the target carries a nil id
func (e ErrInvestmentNotFound) Is(target error) bool {
	t, ok := target.(ErrInvestmentNotFound)
	if !ok {
		return false
	}
	if t.InvestmentID == uuid.Nil {
		return true
	}
	return e.InvestmentID == t.InvestmentID
}

// ErrFundsLocked indicates a withdrawal attempted before the lock-in end date
type ErrFundsLocked struct {
	InvestmentID  uuid.UUID
	LockInEndDate time.Time
}

func (e ErrFundsLocked) Error() string {
	return "investment " + e.InvestmentID.String() + " is locked until " + e.LockInEndDate.Format(time.RFC3339)
}

// ErrAlreadyWithdrawn indicates the investment has already been paid out
type ErrAlreadyWithdrawn struct {
	InvestmentID uuid.UUID
}

func (e ErrAlreadyWithdrawn) Error() string {
	return "investment " + e.InvestmentID.String() + " has already been withdrawn"
}

// ErrWithdrawalPending indicates the investment is reserved by an undecided
// withdraw request
type ErrWithdrawalPending struct {
	InvestmentID uuid.UUID
}

func (e ErrWithdrawalPending) Error() string {
	return "investment " + e.InvestmentID.String() + " has a withdraw request pending"
}

// ErrBelowMinimumDeposit indicates an investment amount under the threshold
type ErrBelowMinimumDeposit struct {
	Amount  int64
	Minimum int64
}

func (e ErrBelowMinimumDeposit) Error() string {
	return "investment amount " + strconv.FormatInt(e.Amount, 10) +
		" is below the minimum deposit of " + strconv.FormatInt(e.Minimum, 10)
}
