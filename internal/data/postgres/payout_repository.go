package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wealthvault-ledger/internal/domain/payout"
	"github.com/wealthvault-ledger/internal/domain/shared"
	"github.com/wealthvault-ledger/internal/platform/persistence"
)

const payoutColumns = "id, client_id, amount, type, category, reference, payout_date, status, created_at"

// PayoutRepository implements the payout.Repository interface for PostgreSQL.
// The payout log is append-only; no update path exists for amount, type,
// category, or client.
type PayoutRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPayoutRepository creates a new PostgreSQL payout repository
func NewPayoutRepository(logger *slog.Logger, db *persistence.PostgresDB) payout.Repository {
	return &PayoutRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *PayoutRepository) WithTx(tx pgx.Tx) payout.Repository {
	return &PayoutRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends a payout entry to the log
func (r *PayoutRepository) Create(ctx context.Context, p *payout.Payout) error {
	query := `
		INSERT INTO payouts (id, client_id, amount, type, category, reference, payout_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		p.ID,
		p.ClientID,
		p.Amount,
		p.Type,
		p.Category,
		p.Reference,
		p.PayoutDate,
		p.Status,
		p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create payout", "error", err)
		return fmt.Errorf("failed to create payout: %w", err)
	}

	return nil
}

// GetByID retrieves a payout entry by its ID
func (r *PayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*payout.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	p, err := scanPayout(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payout.ErrPayoutNotFound{PayoutID: id}
		}
		r.logger.Error("Failed to get payout", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}

	return p, nil
}

// List retrieves payout entries matching the filter, newest first
func (r *PayoutRepository) List(ctx context.Context, filter payout.Filter, limit, offset int) ([]*payout.Payout, error) {
	where, args := buildPayoutFilter(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM payouts %s ORDER BY payout_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		payoutColumns, where, len(args)-1, len(args),
	)

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list payouts", "error", err)
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*payout.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			r.logger.Error("Failed to scan payout", "error", err)
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over payouts: %w", err)
	}

	return payouts, nil
}

// Count returns the number of payout entries matching the filter
func (r *PayoutRepository) Count(ctx context.Context, filter payout.Filter) (int64, error) {
	where, args := buildPayoutFilter(filter)
	query := `SELECT COUNT(*) FROM payouts ` + where

	var count int64
	err := r.querier.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count payouts", "error", err)
		return 0, fmt.Errorf("failed to count payouts: %w", err)
	}

	return count, nil
}

// SumByCategory sums payout amounts for a category across all clients.
// Failed payouts never contribute to totals.
func (r *PayoutRepository) SumByCategory(ctx context.Context, category shared.PayoutCategory) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payouts
		WHERE category = $1 AND status != $2
	`

	var sum int64
	err := r.querier.QueryRow(ctx, query, category, shared.PayoutStatusFailed).Scan(&sum)
	if err != nil {
		r.logger.Error("Failed to sum payouts by category", "category", string(category), "error", err)
		return 0, fmt.Errorf("failed to sum payouts by category: %w", err)
	}

	return sum, nil
}

// SumByClientAndCategory sums payout amounts for one client and category
func (r *PayoutRepository) SumByClientAndCategory(ctx context.Context, clientID uuid.UUID, category shared.PayoutCategory) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payouts
		WHERE client_id = $1 AND category = $2 AND status != $3
	`

	var sum int64
	err := r.querier.QueryRow(ctx, query, clientID, category, shared.PayoutStatusFailed).Scan(&sum)
	if err != nil {
		r.logger.Error("Failed to sum client payouts", "client_id", clientID.String(), "category", string(category), "error", err)
		return 0, fmt.Errorf("failed to sum client payouts: %w", err)
	}

	return sum, nil
}

// DeleteByClientID removes all of a client's payout entries and reports how
// many rows were removed. Only the client deletion path uses this.
func (r *PayoutRepository) DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	result, err := r.querier.Exec(ctx, `DELETE FROM payouts WHERE client_id = $1`, clientID)
	if err != nil {
		r.logger.Error("Failed to delete client payouts", "client_id", clientID.String(), "error", err)
		return 0, fmt.Errorf("failed to delete client payouts: %w", err)
	}

	return result.RowsAffected(), nil
}

// buildPayoutFilter translates a filter into a WHERE clause with positional
// arguments starting at $1
func buildPayoutFilter(filter payout.Filter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ClientID != uuid.Nil {
		args = append(args, filter.ClientID)
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanPayout(row pgx.Row) (*payout.Payout, error) {
	var p payout.Payout
	err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.Amount,
		&p.Type,
		&p.Category,
		&p.Reference,
		&p.PayoutDate,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
