package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdminRepository defines admin persistence operations
type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Update(ctx context.Context, admin *Admin) error

	// LockForUpdate acquires a pessimistic lock on the admin row for
	// total-affecting operations
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Admin, error)
	WithTx(tx pgx.Tx) AdminRepository
}

// ClientRepository defines client persistence operations. Bank details are
// owned by the client row and written through the same repository.
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
	List(ctx context.Context, limit, offset int) ([]*Client, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, client *Client) error

	// UpdateProfile writes only the contact columns, leaving the cached
	// totals untouched so it needs no row lock
	UpdateProfile(ctx context.Context, client *Client) error
	UpdateBankDetails(ctx context.Context, clientID uuid.UUID, bank *BankDetails) error
	Delete(ctx context.Context, id uuid.UUID) error

	// LockForUpdate acquires a pessimistic lock on the client row for
	// total-affecting operations
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Client, error)
	WithTx(tx pgx.Tx) ClientRepository
}

// ErrAdminNotFound indicates missing admin
type ErrAdminNotFound struct {
	AdminID uuid.UUID
}

func (e ErrAdminNotFound) Error() string {
	return "admin not found: " + e.AdminID.String()
}

// Is matches any ErrAdminNotFound when the target carries a nil id
func (e ErrAdminNotFound) Is(target error) bool {
	t, ok := target.(ErrAdminNotFound)
	if !ok {
		return false
	}
	if t.AdminID == uuid.Nil {
		return true
	}
	return e.AdminID == t.AdminID
}

// ErrClientNotFound indicates missing client, by id or by email
type ErrClientNotFound struct {
	ClientID uuid.UUID
	Email    string
}

func (e ErrClientNotFound) Error() string {
	if e.Email != "" {
		return "client not found: " + e.Email
	}
	return "client not found: " + e.ClientID.String()
}

// Is matches any ErrClientNotFound when the target carries no identifiers
func (e ErrClientNotFound) Is(target error) bool {
	t, ok := target.(ErrClientNotFound)
	if !ok {
		return false
	}
	if t.ClientID == uuid.Nil && t.Email == "" {
		return true
	}
	return e.ClientID == t.ClientID && e.Email == t.Email
}

// ErrDuplicateEmail indicates email uniqueness violation on creation
type ErrDuplicateEmail struct {
	Email string
}

func (e ErrDuplicateEmail) Error() string {
	return "account with email already exists: " + e.Email
}
