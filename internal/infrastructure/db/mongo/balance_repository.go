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

const balancesCollection = "balances"

// BalanceRepository implements ports.BalanceRepository using MongoDB. All
// mutations are single atomic document updates; the conditional filter on
// Debit is what makes concurrent credit/debit safe without in-process locking.
type BalanceRepository struct {
	coll *mongo.Collection
}

func NewBalanceRepository(db *mongo.Database) *BalanceRepository {
	return &BalanceRepository{coll: db.Collection(balancesCollection)}
}

// GetOrCreate upserts the balance record at 0 and returns the current state.
func (r *BalanceRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Balance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{"amount": float64(0), "updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var b domain.Balance
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b); err != nil {
		return nil, fmt.Errorf("get or create balance: %w", err)
	}
	return &b, nil
}

// Credit atomically increments the balance, creating the record when absent,
// and returns the new total.
func (r *BalanceRepository) Credit(ctx context.Context, userID string, amount float64) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$inc": bson.M{"amount": amount},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var b domain.Balance
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b); err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}
	return b.Amount, nil
}

// Debit atomically subtracts amount. The filter requires the current amount
// to cover the debit, so two racing debits can never drive the balance
// negative.
func (r *BalanceRepository) Debit(ctx context.Context, userID string, amount float64) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "amount": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"amount": -amount},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b domain.Balance
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if err == nil {
		return b.Amount, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("debit balance: %w", err)
	}

	// Distinguish "no record" from "record too small".
	n, countErr := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if countErr != nil {
		return 0, fmt.Errorf("debit balance: %w", countErr)
	}
	if n == 0 {
		return 0, domain.ErrBalanceNotFound
	}
	return 0, domain.ErrInsufficientFunds
}

// Set replaces the balance with an absolute value.
func (r *BalanceRepository) Set(ctx context.Context, userID string, amount float64) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{"amount": amount, "updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var b domain.Balance
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b); err != nil {
		return 0, fmt.Errorf("set balance: %w", err)
	}
	return b.Amount, nil
}

// AmountsFor returns current amounts for the given users; absent records
// report 0.
func (r *BalanceRepository) AmountsFor(ctx context.Context, userIDs []string) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	amounts := make(map[string]float64, len(userIDs))
	for _, id := range userIDs {
		amounts[id] = 0
	}
	if len(userIDs) == 0 {
		return amounts, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("find balances: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var b domain.Balance
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode balance: %w", err)
		}
		amounts[b.UserID] = b.Amount
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find balances: %w", err)
	}
	return amounts, nil
}

// EnsureIndexes creates the one-record-per-user constraint.
func (r *BalanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
