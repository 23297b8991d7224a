package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrEmptyBankDetails = errors.New("bank details are required")
)

// BankDetails holds a client's settlement account. Owned exclusively by the
// client row and cascade-deleted with it.
type BankDetails struct {
	ID            uuid.UUID `json:"id"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	BankBranch    string    `json:"bank_branch"`
	IFSCCode      string    `json:"ifsc_code"`
}

// NewBankDetails validates and creates settlement account details
func NewBankDetails(bankName, accountNumber, bankBranch, ifscCode string) (*BankDetails, error) {
	if bankName == "" || accountNumber == "" || bankBranch == "" || ifscCode == "" {
		return nil, ErrEmptyBankDetails
	}
	return &BankDetails{
		ID:            uuid.New(),
		BankName:      bankName,
		AccountNumber: accountNumber,
		BankBranch:    bankBranch,
		IFSCCode:      ifscCode,
	}, nil
}

// Client represents an onboarded investor and the aggregate totals cached on
// its row. The invariant TotalBalance == TotalInvestment - TotalWithdrawn is
// maintained by the Apply* methods; every balance-affecting operation must go
// through them inside a transaction holding the client row lock.
type Client struct {
	ID              uuid.UUID    `json:"id"`
	Email           string       `json:"email"`
	HashedPassword  string       `json:"-"`
	Name            string       `json:"name"`
	Phone           string       `json:"phone"`
	Role            string       `json:"role"`
	BankDetails     *BankDetails `json:"bank_details,omitempty"`
	TotalInvestment int64        `json:"total_investment"`
	TotalWithdrawn  int64        `json:"total_withdrawn"`
	TotalInterest   int64        `json:"total_interest"`
	TotalBalance    int64        `json:"total_balance"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// NewClient creates a new client with zeroed totals
func NewClient(email, hashedPassword, name, phone string, bank *BankDetails, createdAt time.Time) (*Client, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if hashedPassword == "" {
		return nil, ErrEmptyPassword
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if bank == nil {
		return nil, ErrEmptyBankDetails
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &Client{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		Name:           name,
		Phone:          phone,
		Role:           "client",
		BankDetails:    bank,
		CreatedAt:      createdAt,
		UpdatedAt:      time.Now(),
	}, nil
}

// ApplyDeposit records a new investment in the cached totals
func (c *Client) ApplyDeposit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	c.TotalInvestment += amount
	c.TotalBalance = c.TotalInvestment - c.TotalWithdrawn
	c.UpdatedAt = time.Now()
	return nil
}

// ApplyWithdrawal records a completed withdrawal in the cached totals
func (c *Client) ApplyWithdrawal(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	c.TotalInvestment -= amount
	c.TotalWithdrawn += amount
	c.TotalBalance = c.TotalInvestment - c.TotalWithdrawn
	c.UpdatedAt = time.Now()
	return nil
}

// ApplyInterest records an interest payout in the cached totals
func (c *Client) ApplyInterest(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	c.TotalInterest += amount
	c.UpdatedAt = time.Now()
	return nil
}

// SetTotals overwrites the cached totals from recomputed event-log sums
func (c *Client) SetTotals(totalInvestment, totalWithdrawn, totalInterest int64) {
	c.TotalInvestment = totalInvestment
	c.TotalWithdrawn = totalWithdrawn
	c.TotalInterest = totalInterest
	c.TotalBalance = totalInvestment - totalWithdrawn
	c.UpdatedAt = time.Now()
}

// NormalizeTotals clamps negative cached totals to zero and reports whether
// anything changed, so readers can persist the correction.
func (c *Client) NormalizeTotals() bool {
	changed := false
	for _, total := range []*int64{&c.TotalInvestment, &c.TotalWithdrawn, &c.TotalInterest, &c.TotalBalance} {
		if *total < 0 {
			*total = 0
			changed = true
		}
	}
	if changed {
		c.UpdatedAt = time.Now()
	}
	return changed
}
