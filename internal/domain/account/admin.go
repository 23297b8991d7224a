package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrEmptyPassword = errors.New("password hash cannot be empty")
)

// Admin represents a back-office administrator together with the firm-level
// aggregate totals cached on the row. TotalFunds is the sum of all active
// investments; TotalInterest the sum of all interest payouts ever issued.
// Both are derived values, recomputable from the event log.
type Admin struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	TotalFunds     int64     `json:"total_funds"`
	TotalInterest  int64     `json:"total_interest"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAdmin creates a new admin with zeroed totals
func NewAdmin(email, hashedPassword, name, phone string) (*Admin, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if hashedPassword == "" {
		return nil, ErrEmptyPassword
	}
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now()
	return &Admin{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		Name:           name,
		Phone:          phone,
		Role:           "admin",
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ApplyFundsDelta adjusts the cached total of funds under management.
// Decrements clamp at zero so a stale cache can never go negative.
func (a *Admin) ApplyFundsDelta(delta int64) {
	a.TotalFunds += delta
	if a.TotalFunds < 0 {
		a.TotalFunds = 0
	}
	a.UpdatedAt = time.Now()
}

// ApplyInterestDelta adjusts the cached interest total, clamped at zero.
func (a *Admin) ApplyInterestDelta(delta int64) {
	a.TotalInterest += delta
	if a.TotalInterest < 0 {
		a.TotalInterest = 0
	}
	a.UpdatedAt = time.Now()
}

// NormalizeTotals clamps negative cached totals to zero and reports whether
// anything changed, so readers can persist the correction instead of
// re-clamping on every read.
func (a *Admin) NormalizeTotals() bool {
	changed := false
	if a.TotalFunds < 0 {
		a.TotalFunds = 0
		changed = true
	}
	if a.TotalInterest < 0 {
		a.TotalInterest = 0
		changed = true
	}
	if changed {
		a.UpdatedAt = time.Now()
	}
	return changed
}
