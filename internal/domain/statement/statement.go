package statement

import (
	"time"

	"github.com/google/uuid"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/shared"
)

// Entry is the archived, read-optimized projection of a payout. The archive
// is derived state fed through the transactional outbox; the payout log in
// PostgreSQL stays the source of truth.
type Entry struct {
	PayoutID   uuid.UUID             `json:"payout_id" bson:"payout_id"`
	ClientID   uuid.UUID             `json:"client_id" bson:"client_id"`
	Amount     int64                 `json:"amount" bson:"amount"`
	Type       shared.PayoutType     `json:"type" bson:"type"`
	Category   shared.PayoutCategory `json:"category" bson:"category"`
	Reference  string                `json:"reference" bson:"reference"`
	PayoutDate time.Time             `json:"payout_date" bson:"payout_date"`
	Status     shared.PayoutStatus   `json:"status" bson:"status"`
	RecordedAt time.Time             `json:"recorded_at" bson:"recorded_at"`
}

// FromPayout projects a payout log record into an archive entry
func FromPayout(p *payout.Payout) *Entry {
	return &Entry{
		PayoutID:   p.ID,
		ClientID:   p.ClientID,
		Amount:     p.Amount,
		Type:       p.Type,
		Category:   p.Category,
		Reference:  p.Reference,
		PayoutDate: p.PayoutDate,
		Status:     p.Status,
		RecordedAt: time.Now(),
	}
}

// ErrEntryNotFound indicates missing archive entry
type ErrEntryNotFound struct {
	PayoutID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "statement entry not found: " + e.PayoutID.String()
}

// Is matches any ErrEntryNotFound when the target carries a nil id
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.PayoutID == uuid.Nil {
		return true
	}
	return e.PayoutID == t.PayoutID
}
