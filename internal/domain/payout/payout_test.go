package payout

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

func TestNew(t *testing.T) {
	clientID := uuid.New()

	t.Run("SuccessfulCreation", func(t *testing.T) {
		payoutDate := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

		p, err := New(clientID, 200000, shared.PayoutTypeCredit, shared.PayoutCategoryDeposit, payoutDate, shared.PayoutStatusCompleted)
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, clientID, p.ClientID)
		assert.Equal(t, shared.PayoutTypeCredit, p.Type)
		assert.Equal(t, shared.PayoutCategoryDeposit, p.Category)
		assert.Equal(t, payoutDate, p.PayoutDate)
		assert.Equal(t, shared.PayoutStatusCompleted, p.Status)
	})

	t.Run("NegativeAmountRejected", func(t *testing.T) {
		_, err := New(clientID, -1, shared.PayoutTypeDebit, shared.PayoutCategoryWithdrawal, time.Time{}, "")
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("EmptyStatusDefaultsToPending", func(t *testing.T) {
		p, err := New(clientID, 1000, shared.PayoutTypeDebit, shared.PayoutCategoryInterest, time.Time{}, "")
		require.NoError(t, err)
		assert.Equal(t, shared.PayoutStatusPending, p.Status)
	})

	t.Run("ZeroPayoutDateDefaultsToNow", func(t *testing.T) {
		p, err := New(clientID, 1000, shared.PayoutTypeDebit, shared.PayoutCategoryInterest, time.Time{}, "")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), p.PayoutDate, time.Second)
	})

	t.Run("ReferencePrefixFollowsCategory", func(t *testing.T) {
		cases := map[shared.PayoutCategory]string{
			shared.PayoutCategoryDeposit:    "DEP-",
			shared.PayoutCategoryWithdrawal: "WDR-",
			shared.PayoutCategoryInterest:   "INT-",
		}
		for category, prefix := range cases {
			p, err := New(clientID, 1000, shared.PayoutTypeCredit, category, time.Time{}, "")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(p.Reference, prefix), "Reference %q should start with %q", p.Reference, prefix)
			assert.Len(t, p.Reference, len(prefix)+8)
		}
	})
}

func TestErrPayoutNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := ErrPayoutNotFound{PayoutID: id}

	assert.ErrorIs(t, err, ErrPayoutNotFound{})
	assert.ErrorIs(t, err, ErrPayoutNotFound{PayoutID: id})
	assert.NotErrorIs(t, err, ErrPayoutNotFound{PayoutID: uuid.New()})
}
