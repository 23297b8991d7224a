package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wealthvault-ledger/internal/domain/request"
	"github.com/wealthvault-ledger/internal/platform/persistence"
)

const requestColumns = "id, client_id, investment_id, amount, type, status, created_at, responded_at"

// RequestRepository implements the request.Repository interface for PostgreSQL
type RequestRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewRequestRepository creates a new PostgreSQL transaction request repository
func NewRequestRepository(logger *slog.Logger, db *persistence.PostgresDB) request.Repository {
	return &RequestRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *RequestRepository) WithTx(tx pgx.Tx) request.Repository {
	return &RequestRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new transaction request
func (r *RequestRepository) Create(ctx context.Context, req *request.TransactionRequest) error {
	query := `
		INSERT INTO transaction_requests (id, client_id, investment_id, amount, type, status, created_at, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		req.ID,
		req.ClientID,
		req.InvestmentID,
		req.Amount,
		req.Type,
		req.Status,
		req.CreatedAt,
		req.RespondedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction request", "error", err)
		return fmt.Errorf("failed to create transaction request: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction request by its ID
func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*request.TransactionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM transaction_requests WHERE id = $1`

	req, err := scanRequest(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, request.ErrRequestNotFound{RequestID: id}
		}
		r.logger.Error("Failed to get transaction request", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction request: %w", err)
	}

	return req, nil
}

// LockForUpdate obtains a pessimistic lock on the request row and returns its
// current state. Concurrent decisions on the same request serialize here so
// only the first sees it pending. Must be called within a transaction.
func (r *RequestRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*request.TransactionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM transaction_requests WHERE id = $1 FOR UPDATE`

	req, err := scanRequest(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, request.ErrRequestNotFound{RequestID: id}
		}
		r.logger.Error("Failed to lock transaction request", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock transaction request: %w", err)
	}

	return req, nil
}

// List retrieves requests matching the filter, newest first
func (r *RequestRepository) List(ctx context.Context, filter request.Filter, limit, offset int) ([]*request.TransactionRequest, error) {
	where, args := buildRequestFilter(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM transaction_requests %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		requestColumns, where, len(args)-1, len(args),
	)

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list transaction requests", "error", err)
		return nil, fmt.Errorf("failed to list transaction requests: %w", err)
	}
	defer rows.Close()

	var requests []*request.TransactionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			r.logger.Error("Failed to scan transaction request", "error", err)
			return nil, fmt.Errorf("failed to scan transaction request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transaction requests: %w", err)
	}

	return requests, nil
}

// Count returns the number of requests matching the filter
func (r *RequestRepository) Count(ctx context.Context, filter request.Filter) (int64, error) {
	where, args := buildRequestFilter(filter)
	query := `SELECT COUNT(*) FROM transaction_requests ` + where

	var count int64
	err := r.querier.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count transaction requests", "error", err)
		return 0, fmt.Errorf("failed to count transaction requests: %w", err)
	}

	return count, nil
}

// Update persists the request's status and response timestamp
func (r *RequestRepository) Update(ctx context.Context, req *request.TransactionRequest) error {
	query := `
		UPDATE transaction_requests
		SET status = $1, responded_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, req.Status, req.RespondedAt, req.ID)
	if err != nil {
		r.logger.Error("Failed to update transaction request", "id", req.ID.String(), "error", err)
		return fmt.Errorf("failed to update transaction request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return request.ErrRequestNotFound{RequestID: req.ID}
	}

	return nil
}

// DeleteByClientID removes all of a client's requests and reports how many
// rows were removed
func (r *RequestRepository) DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	result, err := r.querier.Exec(ctx, `DELETE FROM transaction_requests WHERE client_id = $1`, clientID)
	if err != nil {
		r.logger.Error("Failed to delete client transaction requests", "client_id", clientID.String(), "error", err)
		return 0, fmt.Errorf("failed to delete client transaction requests: %w", err)
	}

	return result.RowsAffected(), nil
}

func buildRequestFilter(filter request.Filter) (string, []interface{}) {
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
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanRequest(row pgx.Row) (*request.TransactionRequest, error) {
	var req request.TransactionRequest
	err := row.Scan(
		&req.ID,
		&req.ClientID,
		&req.InvestmentID,
		&req.Amount,
		&req.Type,
		&req.Status,
		&req.CreatedAt,
		&req.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
