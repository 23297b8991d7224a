package investment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

const testMinimumDeposit = int64(150000)

func TestNewInvestment(t *testing.T) {
	clientID := uuid.New()

	t.Run("SuccessfulCreation", func(t *testing.T) {
		start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		inv, err := NewInvestment(clientID, 200000, start, time.Time{}, testMinimumDeposit, DefaultLockInPeriod)
		require.NoError(t, err)
		require.NotNil(t, inv)

		assert.NotEqual(t, uuid.Nil, inv.ID)
		assert.Equal(t, clientID, inv.ClientID)
		assert.Equal(t, int64(200000), inv.Amount)
		assert.Equal(t, shared.InvestmentStatusLocked, inv.Status)
		assert.Equal(t, start, inv.LockInStartDate)
		assert.Equal(t, start.Add(DefaultLockInPeriod), inv.LockInEndDate, "End date should default to start plus the lock-in period")
		assert.False(t, inv.IsRenewed)
	})

	t.Run("BelowMinimumDeposit", func(t *testing.T) {
		_, err := NewInvestment(clientID, 149999, time.Time{}, time.Time{}, testMinimumDeposit, DefaultLockInPeriod)

		var belowMin ErrBelowMinimumDeposit
		require.ErrorAs(t, err, &belowMin)
		assert.Equal(t, int64(149999), belowMin.Amount)
		assert.Equal(t, testMinimumDeposit, belowMin.Minimum)
	})

	t.Run("ExplicitEndDateKept", func(t *testing.T) {
		start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(90 * 24 * time.Hour)

		inv, err := NewInvestment(clientID, 200000, start, end, testMinimumDeposit, DefaultLockInPeriod)
		require.NoError(t, err)
		assert.Equal(t, end, inv.LockInEndDate)
	})

	t.Run("ZeroStartDateDefaultsToNow", func(t *testing.T) {
		inv, err := NewInvestment(clientID, 200000, time.Time{}, time.Time{}, testMinimumDeposit, DefaultLockInPeriod)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), inv.LockInStartDate, time.Second)
	})
}

func TestInvestment_Refresh(t *testing.T) {
	t.Run("LockedPastEndDateExpires", func(t *testing.T) {
		inv := &Investment{
			Status:        shared.InvestmentStatusLocked,
			LockInEndDate: time.Now().Add(-time.Hour),
		}

		changed := inv.Refresh(time.Now())
		assert.True(t, changed)
		assert.Equal(t, shared.InvestmentStatusExpired, inv.Status)
	})

	t.Run("LockedInsideWindowUnchanged", func(t *testing.T) {
		inv := &Investment{
			Status:        shared.InvestmentStatusLocked,
			LockInEndDate: time.Now().Add(time.Hour),
		}

		changed := inv.Refresh(time.Now())
		assert.False(t, changed)
		assert.Equal(t, shared.InvestmentStatusLocked, inv.Status)
	})

	t.Run("WithdrawnNeverExpires", func(t *testing.T) {
		inv := &Investment{
			Status:        shared.InvestmentStatusWithdrawn,
			LockInEndDate: time.Now().Add(-time.Hour),
		}

		assert.False(t, inv.Refresh(time.Now()))
		assert.Equal(t, shared.InvestmentStatusWithdrawn, inv.Status)
	})
}

func TestInvestment_Withdrawable(t *testing.T) {
	id := uuid.New()

	t.Run("InsideLockInPeriod", func(t *testing.T) {
		end := time.Now().Add(24 * time.Hour)
		inv := &Investment{ID: id, Status: shared.InvestmentStatusLocked, LockInEndDate: end}

		err := inv.Withdrawable(time.Now())

		var locked ErrFundsLocked
		require.ErrorAs(t, err, &locked)
		assert.Equal(t, id, locked.InvestmentID)
		assert.Equal(t, end, locked.LockInEndDate)
	})

	t.Run("AfterLockInPeriod", func(t *testing.T) {
		inv := &Investment{ID: id, Status: shared.InvestmentStatusLocked, LockInEndDate: time.Now().Add(-time.Hour)}

		require.NoError(t, inv.Withdrawable(time.Now()))
		assert.Equal(t, shared.InvestmentStatusExpired, inv.Status, "Withdrawable should lazily expire the investment")
	})

	t.Run("AlreadyWithdrawn", func(t *testing.T) {
		inv := &Investment{ID: id, Status: shared.InvestmentStatusWithdrawn, LockInEndDate: time.Now().Add(-time.Hour)}

		err := inv.Withdrawable(time.Now())

		var already ErrAlreadyWithdrawn
		require.ErrorAs(t, err, &already)
		assert.Equal(t, id, already.InvestmentID)
	})

	t.Run("WithdrawalRequestedIsWithdrawable", func(t *testing.T) {
		inv := &Investment{ID: id, Status: shared.InvestmentStatusWithdrawalRequested, LockInEndDate: time.Now().Add(-time.Hour)}
		assert.NoError(t, inv.Withdrawable(time.Now()))
	})
}

func TestInvestment_Renew(t *testing.T) {
	inv := &Investment{
		Status:          shared.InvestmentStatusExpired,
		LockInStartDate: time.Now().Add(-2 * DefaultLockInPeriod),
		LockInEndDate:   time.Now().Add(-DefaultLockInPeriod),
	}
	on := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	inv.Renew(on, DefaultLockInPeriod)

	assert.Equal(t, shared.InvestmentStatusLocked, inv.Status)
	assert.Equal(t, on, inv.LockInStartDate)
	assert.Equal(t, on.Add(DefaultLockInPeriod), inv.LockInEndDate)
	assert.True(t, inv.IsRenewed)
	require.NotNil(t, inv.RenewedOn)
	assert.Equal(t, on, *inv.RenewedOn)
}

func TestErrInvestmentNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := ErrInvestmentNotFound{InvestmentID: id}

	assert.ErrorIs(t, err, ErrInvestmentNotFound{})
	assert.ErrorIs(t, err, ErrInvestmentNotFound{InvestmentID: id})
	assert.NotErrorIs(t, err, ErrInvestmentNotFound{InvestmentID: uuid.New()})
}
