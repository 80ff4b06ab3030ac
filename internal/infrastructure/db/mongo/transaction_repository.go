package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

const transactionsCollection = "transactions"

// TransactionRepository implements ports.TransactionRepository using MongoDB.
type TransactionRepository struct {
	coll *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{coll: db.Collection(transactionsCollection)}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) FindByOrderID(ctx context.Context, orderID, userID string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"order_id": orderID}
	if userID != "" {
		filter["user_id"] = userID
	}

	var tx domain.Transaction
	if err := r.coll.FindOne(ctx, filter).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &tx, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []*domain.Transaction
	for cursor.Next(ctx) {
		var tx domain.Transaction
		if err := cursor.Decode(&tx); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		txs = append(txs, &tx)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// MarkSucceeded is the reconciliation gate: a single conditional update on
// {order_id, status: PENDING}. The document matches for exactly one caller;
// everyone else gets applied=false together with the transaction's current
// state.
func (r *TransactionRepository) MarkSucceeded(ctx context.Context, orderID string, paidAt time.Time) (*domain.Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"order_id": orderID, "status": domain.StatusPending}
	update := bson.M{
		"$set": bson.M{"status": domain.StatusSuccess, "paid_at": paidAt.UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tx domain.Transaction
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&tx)
	if err == nil {
		return &tx, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("mark transaction succeeded: %w", err)
	}

	// No PENDING match: either the order is unknown or it already settled.
	existing, findErr := r.FindByOrderID(ctx, orderID, "")
	if findErr != nil {
		return nil, false, findErr
	}
	return existing, false, nil
}

// EnsureIndexes creates the order identifier uniqueness constraint and the
// per-user listing index.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
