package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wealthvault-ledger/internal/domain/statement"
)

const (
	// StatementCollectionName is the name of the statement archive collection in MongoDB
	StatementCollectionName = "payout_statements"
)

// StatementRepository implements the statement.Repository interface for MongoDB.
// The archive is a derived read model; the payout log in PostgreSQL stays the
// source of truth.
type StatementRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewStatementRepository creates a new MongoDB statement repository
func NewStatementRepository(logger *slog.Logger, db *mongo.Database) statement.Repository {
	return &StatementRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes an entry keyed by payout ID. Replaying the same event
// replaces the existing document, which keeps the archiver idempotent.
func (r *StatementRepository) Upsert(ctx context.Context, entry *statement.Entry) error {
	collection := r.db.Collection(StatementCollectionName)

	filter := bson.M{"payout_id": entry.PayoutID}
	opts := options.Replace().SetUpsert(true)

	_, err := collection.ReplaceOne(ctx, filter, entry, opts)
	if err != nil {
		r.logger.Error("Failed to upsert statement entry",
			"payout_id", entry.PayoutID.String(),
			"error", err)
		return fmt.Errorf("failed to upsert statement entry: %w", err)
	}

	return nil
}

// GetByPayoutID retrieves a statement entry by its payout ID.
// Returns ErrEntryNotFound if no entry exists for the given payout.
func (r *StatementRepository) GetByPayoutID(ctx context.Context, payoutID uuid.UUID) (*statement.Entry, error) {
	collection := r.db.Collection(StatementCollectionName)

	filter := bson.M{"payout_id": payoutID}
	var entry statement.Entry
	err := collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, statement.ErrEntryNotFound{PayoutID: payoutID}
		}
		r.logger.Error("Failed to get statement entry",
			"payout_id", payoutID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get statement entry: %w", err)
	}

	return &entry, nil
}

// GetByClientID retrieves paginated statement entries for a client.
// Results are sorted by payout date in descending order (newest first).
func (r *StatementRepository) GetByClientID(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*statement.Entry, error) {
	collection := r.db.Collection(StatementCollectionName)

	filter := bson.M{"client_id": clientID}
	opts := options.Find().
		SetSort(bson.M{"payout_date": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get statement entries",
			"client_id", clientID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get statement entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*statement.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode statement entries",
			"client_id", clientID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode statement entries: %w", err)
	}

	return entries, nil
}

// CountByClientID counts the total number of statement entries for a client
func (r *StatementRepository) CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	collection := r.db.Collection(StatementCollectionName)

	filter := bson.M{"client_id": clientID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count statement entries",
			"client_id", clientID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count statement entries: %w", err)
	}

	return count, nil
}

// GetByClientAndRange retrieves paginated statement entries for a client
// within a payout date window. Results are sorted newest first.
func (r *StatementRepository) GetByClientAndRange(ctx context.Context, clientID uuid.UUID, from, to time.Time, limit, offset int) ([]*statement.Entry, error) {
	collection := r.db.Collection(StatementCollectionName)

	filter := bson.M{
		"client_id": clientID,
		"payout_date": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"payout_date": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get statement entries by date range",
			"client_id", clientID.String(),
			"from", from,
			"to", to,
			"error", err)
		return nil, fmt.Errorf("failed to get statement entries by date range: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*statement.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode statement entries",
			"client_id", clientID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode statement entries: %w", err)
	}

	return entries, nil
}

// DeleteByClientID purges all of a deleted client's statement entries and
// reports how many documents were removed
func (r *StatementRepository) DeleteByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	collection := r.db.Collection(StatementCollectionName)

	filter := bson.M{"client_id": clientID}
	result, err := collection.DeleteMany(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to delete client statement entries",
			"client_id", clientID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to delete client statement entries: %w", err)
	}

	return result.DeletedCount, nil
}
