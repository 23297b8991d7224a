package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/platform/persistence"
)

const adminColumns = "id, email, hashed_password, name, phone, role, total_funds, total_interest, created_at, updated_at"

// AdminRepository implements the account.AdminRepository interface for PostgreSQL
type AdminRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAdminRepository creates a new PostgreSQL admin repository
func NewAdminRepository(logger *slog.Logger, db *persistence.PostgresDB) account.AdminRepository {
	return &AdminRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls.
func (r *AdminRepository) WithTx(tx pgx.Tx) account.AdminRepository {
	return &AdminRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new admin. Returns ErrDuplicateEmail when the email is
// already registered.
func (r *AdminRepository) Create(ctx context.Context, admin *account.Admin) error {
	query := `
		INSERT INTO admins (id, email, hashed_password, name, phone, role, total_funds, total_interest, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		admin.ID,
		admin.Email,
		admin.HashedPassword,
		admin.Name,
		admin.Phone,
		admin.Role,
		admin.TotalFunds,
		admin.TotalInterest,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateEmail{Email: admin.Email}
		}
		r.logger.Error("Failed to create admin", "error", err)
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// GetByID retrieves an admin by its ID
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	admin, err := r.scanAdmin(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAdminNotFound{AdminID: id}
		}
		r.logger.Error("Failed to get admin", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return admin, nil
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*account.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	admin, err := r.scanAdmin(r.querier.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAdminNotFound{}
		}
		r.logger.Error("Failed to get admin by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return admin, nil
}

// Update persists the admin's mutable fields and cached totals
func (r *AdminRepository) Update(ctx context.Context, admin *account.Admin) error {
	query := `
		UPDATE admins
		SET email = $1, name = $2, phone = $3, total_funds = $4, total_interest = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.querier.Exec(ctx, query,
		admin.Email,
		admin.Name,
		admin.Phone,
		admin.TotalFunds,
		admin.TotalInterest,
		admin.UpdatedAt,
		admin.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update admin", "id", admin.ID.String(), "error", err)
		return fmt.Errorf("failed to update admin: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAdminNotFound{AdminID: admin.ID}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the admin row and returns its
// current state. Must be called within a transaction.
func (r *AdminRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1 FOR UPDATE`

	admin, err := r.scanAdmin(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAdminNotFound{AdminID: id}
		}
		r.logger.Error("Failed to lock admin for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock admin for update: %w", err)
	}

	return admin, nil
}

func (r *AdminRepository) scanAdmin(row pgx.Row) (*account.Admin, error) {
	var admin account.Admin
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.HashedPassword,
		&admin.Name,
		&admin.Phone,
		&admin.Role,
		&admin.TotalFunds,
		&admin.TotalInterest,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
