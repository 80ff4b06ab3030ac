package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const balanceCacheTTL = 5 * time.Minute

// BalanceCache caches balance reads. Key format: balance:<user_id>
type BalanceCache struct {
	client *redis.Client
}

func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{client: client}
}

// Get returns the cached amount and whether it was present.
func (c *BalanceCache) Get(ctx context.Context, userID string) (float64, bool, error) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("balance cache get: %w", err)
	}

	amount, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("balance cache decode: %w", err)
	}
	return amount, true, nil
}

func (c *BalanceCache) Set(ctx context.Context, userID string, amount float64) error {
	return c.client.Set(ctx, c.key(userID), strconv.FormatFloat(amount, 'f', -1, 64), balanceCacheTTL).Err()
}

func (c *BalanceCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *BalanceCache) key(userID string) string {
	return "balance:" + userID
}
