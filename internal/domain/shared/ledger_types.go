package shared

import "errors"

// ErrLedgerBusy indicates a per-account lock could not be acquired in time.
// Callers should retry the operation rather than assume partial application.
var ErrLedgerBusy = errors.New("ledger busy: account lock acquisition timed out")

// PayoutType defines the direction of a payout ledger entry
type PayoutType string

const (
	PayoutTypeCredit PayoutType = "credit" // money into the fund
	PayoutTypeDebit  PayoutType = "debit"  // money out of the fund
)

// PayoutCategory classifies what a payout entry records. Direction alone
// cannot distinguish interest from withdrawals when totals are recomputed
// from the log, so every entry carries its category.
type PayoutCategory string

const (
	PayoutCategoryDeposit    PayoutCategory = "deposit"
	PayoutCategoryWithdrawal PayoutCategory = "withdrawal"
	PayoutCategoryInterest   PayoutCategory = "interest"
)

// PayoutStatus defines payout settlement states
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusCompleted PayoutStatus = "completed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// InvestmentStatus defines investment lifecycle states
type InvestmentStatus string

const (
	InvestmentStatusLocked              InvestmentStatus = "locked"
	InvestmentStatusExpired             InvestmentStatus = "expired"
	InvestmentStatusWithdrawalRequested InvestmentStatus = "withdrawal_requested"
	InvestmentStatusWithdrawn           InvestmentStatus = "withdrawn"
)

// RequestType defines client-initiated transaction request kinds
type RequestType string

const (
	RequestTypeAddAmount RequestType = "add_amount"
	RequestTypeWithdraw  RequestType = "withdraw"
)

// RequestStatus defines transaction request workflow states.
// pending is the only state a request may transition out of.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// EventKind defines outbox event kinds consumed by the statement archiver
type EventKind string

const (
	EventKindPayoutRecorded EventKind = "payout.recorded"
	EventKindClientDeleted  EventKind = "client.deleted"
)
