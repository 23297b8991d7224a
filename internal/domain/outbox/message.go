package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/shared"
	"github.com/wealthvault-ledger/internal/domain/statement"
)

// Event is the payload carried by an outbox message to the statement
// archiver
type Event struct {
	EventID    uuid.UUID        `json:"event_id"`
	Kind       shared.EventKind `json:"kind"`
	ClientID   uuid.UUID        `json:"client_id"`
	Entry      *statement.Entry `json:"entry,omitempty"` // payout.recorded only
	OccurredAt time.Time        `json:"occurred_at"`
}

// Message stores an event for reliable publishing. Rows are written in the
// same transaction as the ledger mutation they describe.
type Message struct {
	ID            int64               `json:"id"`
	EventID       uuid.UUID           `json:"event_id"`
	ClientID      uuid.UUID           `json:"client_id"`
	Kind          shared.EventKind    `json:"kind"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

// NewPayoutRecorded builds an outbox message for a freshly committed payout
func NewPayoutRecorded(p *payout.Payout) (*Message, error) {
	event := &Event{
		EventID:    uuid.New(),
		Kind:       shared.EventKindPayoutRecorded,
		ClientID:   p.ClientID,
		Entry:      statement.FromPayout(p),
		OccurredAt: time.Now(),
	}
	return newMessage(event)
}

// NewClientDeleted builds a tombstone message so the archiver purges the
// client's statement entries
func NewClientDeleted(clientID uuid.UUID) (*Message, error) {
	event := &Event{
		EventID:    uuid.New(),
		Kind:       shared.EventKindClientDeleted,
		ClientID:   clientID,
		OccurredAt: time.Now(),
	}
	return newMessage(event)
}

func newMessage(event *Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:   event.EventID,
		ClientID:  event.ClientID,
		Kind:      event.Kind,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetEvent extracts the event from the payload
func (m *Message) GetEvent() (*Event, error) {
	var event Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
