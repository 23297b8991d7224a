package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wealthvault-ledger/internal/domain/investment"
	"github.com/wealthvault-ledger/internal/domain/shared"
	"github.com/wealthvault-ledger/internal/platform/persistence"
)

const investmentColumns = "id, client_id, amount, lock_in_start_date, lock_in_end_date, is_renewed, renewed_on, status, created_at, updated_at"

// InvestmentRepository implements the investment.Repository interface for PostgreSQL
type InvestmentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewInvestmentRepository creates a new PostgreSQL investment repository
func NewInvestmentRepository(logger *slog.Logger, db *persistence.PostgresDB) investment.Repository {
	return &InvestmentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *InvestmentRepository) WithTx(tx pgx.Tx) investment.Repository {
	return &InvestmentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new investment
func (r *InvestmentRepository) Create(ctx context.Context, inv *investment.Investment) error {
	query := `
		INSERT INTO investments (id, client_id, amount, lock_in_start_date, lock_in_end_date, is_renewed, renewed_on, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		inv.ID,
		inv.ClientID,
		inv.Amount,
		inv.LockInStartDate,
		inv.LockInEndDate,
		inv.IsRenewed,
		inv.RenewedOn,
		inv.Status,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create investment", "error", err)
		return fmt.Errorf("failed to create investment: %w", err)
	}

	return nil
}

// GetByID retrieves an investment by its ID
func (r *InvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`

	inv, err := scanInvestment(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, investment.ErrInvestmentNotFound{InvestmentID: id}
		}
		r.logger.Error("Failed to get investment", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	return inv, nil
}

// LockForUpdate obtains a pessimistic lock on the investment row and returns
// its current state. Must be called within a transaction.
func (r *InvestmentRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1 FOR UPDATE`

	inv, err := scanInvestment(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, investment.ErrInvestmentNotFound{InvestmentID: id}
		}
		r.logger.Error("Failed to lock investment for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock investment for update: %w", err)
	}

	return inv, nil
}

// GetByClientID retrieves all investments for a client, newest first
func (r *InvestmentRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]*investment.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, clientID)
	if err != nil {
		r.logger.Error("Failed to get investments by client", "client_id", clientID.String(), "error", err)
		return nil, fmt.Errorf("failed to get investments by client: %w", err)
	}
	defer rows.Close()

	var investments []*investment.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			r.logger.Error("Failed to scan investment", "error", err)
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over investments: %w", err)
	}

	return investments, nil
}

// SumActiveByClientID sums non-withdrawn investment amounts for a client
func (r *InvestmentRepository) SumActiveByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM investments
		WHERE client_id = $1 AND status != $2
	`

	var sum int64
	err := r.querier.QueryRow(ctx, query, clientID, shared.InvestmentStatusWithdrawn).Scan(&sum)
	if err != nil {
		r.logger.Error("Failed to sum client investments", "client_id", clientID.String(), "error", err)
		return 0, fmt.Errorf("failed to sum client investments: %w", err)
	}

	return sum, nil
}

// SumActive sums all non-withdrawn investment amounts across clients
func (r *InvestmentRepository) SumActive(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM investments
		WHERE status != $1
	`

	var sum int64
	err := r.querier.QueryRow(ctx, query, shared.InvestmentStatusWithdrawn).Scan(&sum)
	if err != nil {
		r.logger.Error("Failed to sum investments", "error", err)
		return 0, fmt.Errorf("failed to sum investments: %w", err)
	}

	return sum, nil
}

// UpdateStatus moves the investment to a new lifecycle status
func (r *InvestmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status shared.InvestmentStatus) error {
	query := `
		UPDATE investments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update investment status", "id", id.String(), "status", string(status), "error", err)
		return fmt.Errorf("failed to update investment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return investment.ErrInvestmentNotFound{InvestmentID: id}
	}

	return nil
}

// Update persists the investment's mutable fields
func (r *InvestmentRepository) Update(ctx context.Context, inv *investment.Investment) error {
	query := `
		UPDATE investments
		SET amount = $1, lock_in_start_date = $2, lock_in_end_date = $3, is_renewed = $4, renewed_on = $5, status = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.querier.Exec(ctx, query,
		inv.Amount,
		inv.LockInStartDate,
		inv.LockInEndDate,
		inv.IsRenewed,
		inv.RenewedOn,
		inv.Status,
		inv.UpdatedAt,
		inv.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update investment", "id", inv.ID.String(), "error", err)
		return fmt.Errorf("failed to update investment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return investment.ErrInvestmentNotFound{InvestmentID: inv.ID}
	}

	return nil
}

// Delete removes an investment
func (r *InvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete investment", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return investment.ErrInvestmentNotFound{InvestmentID: id}
	}

	return nil
}

// DeleteByClientID removes all of a client's investments and reports how many
// rows were removed
func (r *InvestmentRepository) DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	result, err := r.querier.Exec(ctx, `DELETE FROM investments WHERE client_id = $1`, clientID)
	if err != nil {
		r.logger.Error("Failed to delete client investments", "client_id", clientID.String(), "error", err)
		return 0, fmt.Errorf("failed to delete client investments: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanInvestment(row pgx.Row) (*investment.Investment, error) {
	var inv investment.Investment
	err := row.Scan(
		&inv.ID,
		&inv.ClientID,
		&inv.Amount,
		&inv.LockInStartDate,
		&inv.LockInEndDate,
		&inv.IsRenewed,
		&inv.RenewedOn,
		&inv.Status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
