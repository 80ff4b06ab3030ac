package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

const hitLogsCollection = "hit_logs"

// HitLogRepository implements ports.HitLogRepository using MongoDB.
type HitLogRepository struct {
	coll *mongo.Collection
}

func NewHitLogRepository(db *mongo.Database) *HitLogRepository {
	return &HitLogRepository{coll: db.Collection(hitLogsCollection)}
}

func (r *HitLogRepository) Insert(ctx context.Context, hit *domain.HitLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, hit); err != nil {
		return fmt.Errorf("insert hit log: %w", err)
	}
	return nil
}

func (r *HitLogRepository) CountBetween(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"user_id":   userID,
		"timestamp": bson.M{"$gte": from.UTC(), "$lt": to.UTC()},
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count hit logs: %w", err)
	}
	return n, nil
}

func (r *HitLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, fmt.Errorf("prune hit logs: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the aggregation index used by the usage counts.
func (r *HitLogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
