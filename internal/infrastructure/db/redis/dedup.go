package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// WebhookDedup provides a fast-path idempotency check for redelivered
// gateway webhooks. Key format: webhook:<order_id>:<event>
//
// This is an optimisation in front of the transaction status gate, not a
// correctness mechanism: losing a key only means one extra no-op pass
// through the conditional update.
type WebhookDedup struct {
	client *redis.Client
}

// NewWebhookDedup creates a WebhookDedup wrapping the given Redis client.
func NewWebhookDedup(client *redis.Client) *WebhookDedup {
	return &WebhookDedup{client: client}
}

// IsDuplicate reports whether this notification has already been processed.
func (d *WebhookDedup) IsDuplicate(ctx context.Context, orderID, event string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(orderID, event)).Result()
	if err != nil {
		return false, fmt.Errorf("webhook dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this notification has been processed (expires after dedupTTL).
func (d *WebhookDedup) Mark(ctx context.Context, orderID, event string) error {
	return d.client.Set(ctx, d.key(orderID, event), "1", dedupTTL).Err()
}

func (d *WebhookDedup) key(orderID, event string) string {
	return fmt.Sprintf("webhook:%s:%s", orderID, event)
}
