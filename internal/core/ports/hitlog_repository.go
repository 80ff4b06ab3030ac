package ports

import (
	"context"
	"time"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// HitLogRepository handles append-only usage records.
type HitLogRepository interface {
	Insert(ctx context.Context, hit *domain.HitLog) error
	// CountBetween counts a user's hits with from <= timestamp < to.
	CountBetween(ctx context.Context, userID string, from, to time.Time) (int64, error)
	// DeleteOlderThan prunes entries with timestamp < cutoff and returns the
	// number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
