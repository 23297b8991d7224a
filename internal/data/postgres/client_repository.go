package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wealthvault-ledger/internal/domain/account"
	"github.com/wealthvault-ledger/internal/platform/persistence"
)

const clientColumns = `
	c.id, c.email, c.hashed_password, c.name, c.phone, c.role,
	c.total_investment, c.total_withdrawn, c.total_interest, c.total_balance,
	c.created_at, c.updated_at,
	b.id, b.bank_name, b.account_number, b.bank_branch, b.ifsc_code`

// ClientRepository implements the account.ClientRepository interface for
// PostgreSQL. Bank details live in their own table but are owned by the
// client row and are read back through a join.
type ClientRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewClientRepository creates a new PostgreSQL client repository
func NewClientRepository(logger *slog.Logger, db *persistence.PostgresDB) account.ClientRepository {
	return &ClientRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *ClientRepository) WithTx(tx pgx.Tx) account.ClientRepository {
	return &ClientRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new client together with its bank details. Returns
// ErrDuplicateEmail when the email is already registered.
func (r *ClientRepository) Create(ctx context.Context, client *account.Client) error {
	query := `
		INSERT INTO clients (id, email, hashed_password, name, phone, role, total_investment, total_withdrawn, total_interest, total_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.querier.Exec(ctx, query,
		client.ID,
		client.Email,
		client.HashedPassword,
		client.Name,
		client.Phone,
		client.Role,
		client.TotalInvestment,
		client.TotalWithdrawn,
		client.TotalInterest,
		client.TotalBalance,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateEmail{Email: client.Email}
		}
		r.logger.Error("Failed to create client", "error", err)
		return fmt.Errorf("failed to create client: %w", err)
	}

	if client.BankDetails != nil {
		if err := r.insertBankDetails(ctx, client.ID, client.BankDetails); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a client with its bank details by ID
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients c
		LEFT JOIN bank_details b ON b.client_id = c.id
		WHERE c.id = $1
	`

	client, err := scanClient(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrClientNotFound{ClientID: id}
		}
		r.logger.Error("Failed to get client", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

// GetByEmail retrieves a client with its bank details by email
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*account.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients c
		LEFT JOIN bank_details b ON b.client_id = c.id
		WHERE c.email = $1
	`

	client, err := scanClient(r.querier.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrClientNotFound{Email: email}
		}
		r.logger.Error("Failed to get client by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get client by email: %w", err)
	}

	return client, nil
}

// List retrieves clients ordered by creation time, newest first
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*account.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients c
		LEFT JOIN bank_details b ON b.client_id = c.id
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list clients", "error", err)
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*account.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			r.logger.Error("Failed to scan client", "error", err)
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over clients: %w", err)
	}

	return clients, nil
}

// Count returns the total number of clients
func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count clients", "error", err)
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}

// Update persists the client's profile fields and cached totals
func (r *ClientRepository) Update(ctx context.Context, client *account.Client) error {
	query := `
		UPDATE clients
		SET email = $1, name = $2, phone = $3,
		    total_investment = $4, total_withdrawn = $5, total_interest = $6, total_balance = $7,
		    updated_at = $8
		WHERE id = $9
	`

	result, err := r.querier.Exec(ctx, query,
		client.Email,
		client.Name,
		client.Phone,
		client.TotalInvestment,
		client.TotalWithdrawn,
		client.TotalInterest,
		client.TotalBalance,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateEmail{Email: client.Email}
		}
		r.logger.Error("Failed to update client", "id", client.ID.String(), "error", err)
		return fmt.Errorf("failed to update client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrClientNotFound{ClientID: client.ID}
	}

	return nil
}

// UpdateProfile persists only the client's contact fields. Totals are left
// to the locking ledger paths.
func (r *ClientRepository) UpdateProfile(ctx context.Context, client *account.Client) error {
	query := `
		UPDATE clients
		SET email = $1, name = $2, phone = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		client.Email,
		client.Name,
		client.Phone,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateEmail{Email: client.Email}
		}
		r.logger.Error("Failed to update client profile", "id", client.ID.String(), "error", err)
		return fmt.Errorf("failed to update client profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrClientNotFound{ClientID: client.ID}
	}

	return nil
}

// UpdateBankDetails replaces the client's settlement account details
func (r *ClientRepository) UpdateBankDetails(ctx context.Context, clientID uuid.UUID, bank *account.BankDetails) error {
	query := `
		UPDATE bank_details
		SET bank_name = $1, account_number = $2, bank_branch = $3, ifsc_code = $4
		WHERE client_id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		bank.BankName,
		bank.AccountNumber,
		bank.BankBranch,
		bank.IFSCCode,
		clientID,
	)
	if err != nil {
		r.logger.Error("Failed to update bank details", "client_id", clientID.String(), "error", err)
		return fmt.Errorf("failed to update bank details: %w", err)
	}

	if result.RowsAffected() == 0 {
		// No bank details row yet; create one
		return r.insertBankDetails(ctx, clientID, bank)
	}

	return nil
}

// Delete removes the client row. Bank details, investments, payouts, and
// requests cascade at the schema level or are removed by the caller inside
// the same transaction.
func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete client", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrClientNotFound{ClientID: id}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the client row and returns its
// current state. Must be called within a transaction. Only the client row is
// locked; bank details are read without a lock.
func (r *ClientRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Client, error) {
	query := `
		SELECT id, email, hashed_password, name, phone, role,
		       total_investment, total_withdrawn, total_interest, total_balance,
		       created_at, updated_at
		FROM clients
		WHERE id = $1
		FOR UPDATE
	`

	var client account.Client
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.Email,
		&client.HashedPassword,
		&client.Name,
		&client.Phone,
		&client.Role,
		&client.TotalInvestment,
		&client.TotalWithdrawn,
		&client.TotalInterest,
		&client.TotalBalance,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrClientNotFound{ClientID: id}
		}
		r.logger.Error("Failed to lock client for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock client for update: %w", err)
	}

	return &client, nil
}

func (r *ClientRepository) insertBankDetails(ctx context.Context, clientID uuid.UUID, bank *account.BankDetails) error {
	if bank.ID == uuid.Nil {
		bank.ID = uuid.New()
	}

	query := `
		INSERT INTO bank_details (id, client_id, bank_name, account_number, bank_branch, ifsc_code)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		bank.ID,
		clientID,
		bank.BankName,
		bank.AccountNumber,
		bank.BankBranch,
		bank.IFSCCode,
	)
	if err != nil {
		r.logger.Error("Failed to create bank details", "client_id", clientID.String(), "error", err)
		return fmt.Errorf("failed to create bank details: %w", err)
	}

	return nil
}

// scanClient reads a joined client row; bank detail columns may be NULL
func scanClient(row pgx.Row) (*account.Client, error) {
	var client account.Client
	var bankID *uuid.UUID
	var bankName, accountNumber, bankBranch, ifscCode *string

	err := row.Scan(
		&client.ID,
		&client.Email,
		&client.HashedPassword,
		&client.Name,
		&client.Phone,
		&client.Role,
		&client.TotalInvestment,
		&client.TotalWithdrawn,
		&client.TotalInterest,
		&client.TotalBalance,
		&client.CreatedAt,
		&client.UpdatedAt,
		&bankID,
		&bankName,
		&accountNumber,
		&bankBranch,
		&ifscCode,
	)
	if err != nil {
		return nil, err
	}

	if bankID != nil {
		client.BankDetails = &account.BankDetails{
			ID:            *bankID,
			BankName:      *bankName,
			AccountNumber: *accountNumber,
			BankBranch:    *bankBranch,
			IFSCCode:      *ifscCode,
		}
	}

	return &client, nil
}
