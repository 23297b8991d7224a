package statement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

func TestFromPayout(t *testing.T) {
	p, err := payout.New(uuid.New(), 5000, shared.PayoutTypeDebit, shared.PayoutCategoryInterest, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), shared.PayoutStatusCompleted)
	require.NoError(t, err)

	entry := FromPayout(p)

	assert.Equal(t, p.ID, entry.PayoutID)
	assert.Equal(t, p.ClientID, entry.ClientID)
	assert.Equal(t, p.Amount, entry.Amount)
	assert.Equal(t, p.Type, entry.Type)
	assert.Equal(t, p.Category, entry.Category)
	assert.Equal(t, p.Reference, entry.Reference)
	assert.Equal(t, p.PayoutDate, entry.PayoutDate)
	assert.Equal(t, p.Status, entry.Status)
	assert.WithinDuration(t, time.Now(), entry.RecordedAt, time.Second)
}

func TestErrEntryNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := ErrEntryNotFound{PayoutID: id}

	assert.ErrorIs(t, err, ErrEntryNotFound{})
	assert.ErrorIs(t, err, ErrEntryNotFound{PayoutID: id})
	assert.NotErrorIs(t, err, ErrEntryNotFound{PayoutID: uuid.New()})
}
